package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"unicode"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	absent = "(absent)"

	maxLineBytes = 1 << 20
)

var errLineTooLong = fmt.Errorf("line exceeds %d bytes", maxLineBytes)

type keyValue interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// shell executes line-oriented get/set commands against a keyValue.
type shell struct {
	kv     keyValue
	out    io.Writer
	logger *slog.Logger
}

func newShell(kv keyValue, out io.Writer, logger *slog.Logger) *shell {
	if logger == nil {
		logger = slog.Default()
	}
	return &shell{kv: kv, out: out, logger: logger}
}

// run reads commands from in until EOF, quit/exit, or ctx is cancelled.
// Malformed or oversized commands are reported on out and do not stop the loop.
func (sh *shell) run(ctx context.Context, in io.Reader) error {
	reader := bufio.NewReader(in)
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := readLine(reader)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, errLineTooLong):
			sh.reject("", err)
			continue
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		done, err := sh.exec(line)
		if err != nil {
			sh.reject(line, err)
			continue
		}
		if done {
			return nil
		}
	}
}

func (sh *shell) reject(line string, err error) {
	sh.logger.Debug("command rejected", "line", line, "error", err)
	fmt.Fprintf(sh.out, "error: %v\n", err)
}

func (sh *shell) exec(line string) (bool, error) {
	cmd, rest := cutSpace(line)
	key, raw := cutSpace(rest)

	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return true, nil
	case "get":
		if key == "" || raw != "" {
			return false, fmt.Errorf("usage: get <key>")
		}
		val, ok := sh.kv.Get(key)
		if !ok {
			fmt.Fprintln(sh.out, absent)
			return false, nil
		}
		fmt.Fprintln(sh.out, formatValue(val))
		return false, nil
	case "set":
		if key == "" || raw == "" {
			return false, fmt.Errorf("usage: set <key> <value>")
		}
		val, err := parseValue(raw)
		if err != nil {
			return false, err
		}
		sh.kv.Set(key, val)
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %q", cmd)
	}
}

// readLine returns the next line without its terminator. A line longer than
// maxLineBytes is consumed in full and reported as errLineTooLong. io.EOF is
// returned only once no input remains.
func readLine(r *bufio.Reader) (string, error) {
	var line []byte
	tooLong := false
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > maxLineBytes {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if tooLong {
				return "", errLineTooLong
			}
			if len(line) == 0 {
				return "", io.EOF
			}
		case err != nil:
			return "", err
		}

		if tooLong {
			return "", errLineTooLong
		}
		return strings.TrimRight(string(line), "\r\n"), nil
	}
}

// cutSpace splits s at its first run of whitespace.
func cutSpace(s string) (head, tail string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// parseValue decodes raw as a JSON value (number, bool, null, string, object
// or array). Text that is not valid JSON is kept as a plain string. Numbers
// decode to float64, so integer literals that float64 cannot hold exactly are
// rejected rather than rounded.
func parseValue(raw string) (any, error) {
	var v structpb.Value
	if err := protojson.Unmarshal([]byte(raw), &v); err != nil {
		return raw, nil
	}

	if n, ok := v.GetKind().(*structpb.Value_NumberValue); ok {
		literal, ok := new(big.Rat).SetString(raw)
		if ok && literal.IsInt() {
			decoded := new(big.Rat).SetFloat64(n.NumberValue)
			if decoded == nil || decoded.Cmp(literal) != 0 {
				return nil, fmt.Errorf("integer %s is not exactly representable; quote it to store a string", raw)
			}
		}
	}

	return v.AsInterface(), nil
}

func formatValue(val any) string {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Sprint(val)
	}
	return string(data)
}
