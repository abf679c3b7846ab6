package format

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/deft/internal/storage"
)

// Format loads values from and saves values to a stream.
type Format interface {
	// Load decodes the stream into the value pointed to by v.
	Load(r io.Reader, v any) error
	// Save encodes v onto the stream.
	Save(w io.Writer, v any) error
}

var (
	// Text stores a string verbatim.
	Text Format = textFormat{}

	// Lines stores a []string one element per line. Blank lines are
	// skipped on load.
	Lines Format = linesFormat{}

	// YAML stores any value yaml.v3 can encode, in block style.
	YAML Format = yamlFormat{}
)

type textFormat struct{}

func (textFormat) Load(r io.Reader, v any) error {
	dst, ok := v.(*string)
	if !ok {
		return fmt.Errorf("text format: cannot load into %T", v)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	*dst = string(data)
	return nil
}

func (textFormat) Save(w io.Writer, v any) error {
	switch s := v.(type) {
	case string:
		_, err := io.WriteString(w, s)
		return err
	case *string:
		_, err := io.WriteString(w, *s)
		return err
	default:
		return fmt.Errorf("text format: cannot save %T", v)
	}
}

type linesFormat struct{}

func (linesFormat) Load(r io.Reader, v any) error {
	dst, ok := v.(*[]string)
	if !ok {
		return fmt.Errorf("lines format: cannot load into %T", v)
	}
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	*dst = lines
	return nil
}

func (linesFormat) Save(w io.Writer, v any) error {
	lines, ok := v.([]string)
	if !ok {
		return fmt.Errorf("lines format: cannot save %T", v)
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type yamlFormat struct{}

func (yamlFormat) Load(r io.Reader, v any) error {
	err := yaml.NewDecoder(r).Decode(v)
	if err == io.EOF {
		// an empty document decodes to the zero value
		return nil
	}
	return err
}

func (yamlFormat) Save(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Read loads the file at p into v.
func Read(s storage.Storage, p string, f Format, v any) error {
	r, err := s.OpenRead(p)
	if err != nil {
		return err
	}
	defer r.Close()
	if err := f.Load(r, v); err != nil {
		return fmt.Errorf("read %s: %w", p, err)
	}
	return nil
}

// Write saves v to the file at p, replacing its content.
func Write(s storage.Storage, p string, f Format, v any) error {
	w, err := s.OpenWrite(p)
	if err != nil {
		return err
	}
	if err := f.Save(w, v); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", p, err)
	}
	return w.Close()
}
