// Package records loads searchable records from JSON, JSON Lines, YAML and
// plain text files, and keeps an engine in step with those files.
package records

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/objsearch/internal/content"
	"github.com/Aman-CERP/objsearch/pkg/objsearch"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// KindField is the record key that names a record's kind.
const KindField = "kind"

// Record is one entry of a record file. Records are indexed by pointer, so
// two loads of the same file produce distinct objects.
type Record struct {
	// Source is the file the record came from.
	Source string
	// Index is the record's position within Source, from zero.
	Index int
	// Kind is the value of the record's "kind" key, if any.
	Kind string
	// Fields holds the record's top-level scalar values as text.
	Fields map[string]string
	// Data is the decoded value for structured files; nil for text lines.
	Data any
	// Text is the line for text files and compact JSON otherwise.
	Text string
}

// RecordKind is the kind every record carries. Records with a "kind" key
// are tagged with that name first.
var RecordKind = objsearch.KindOf[*Record]()

var kindCache sync.Map // string -> *objsearch.Kind

// KindNamed returns the runtime kind for a "kind" value, child of RecordKind.
func KindNamed(name string) *objsearch.Kind {
	if name == "" {
		return RecordKind
	}
	if k, ok := kindCache.Load(name); ok {
		return k.(*objsearch.Kind)
	}
	k, _ := kindCache.LoadOrStore(name, objsearch.NewKind(name, RecordKind))
	return k.(*objsearch.Kind)
}

// SearchKind implements objsearch.Kinded.
func (r *Record) SearchKind() *objsearch.Kind {
	return KindNamed(r.Kind)
}

// Content renders the record for the content field: the line itself for
// text records, enc's rendering of Data otherwise.
func (r *Record) Content(enc content.Encoder) (string, error) {
	if r.Data == nil {
		return r.Text, nil
	}
	return enc.Encode(r.Data)
}

// Format picks a decoder from a file extension.
type Format string

const (
	FormatJSON      Format = "json"
	FormatJSONLines Format = "jsonl"
	FormatYAML      Format = "yaml"
	FormatText      Format = "text"
)

// FormatOf maps a path to its record format; unknown extensions are text.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".jsonl", ".ndjson":
		return FormatJSONLines
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// LoadFile reads every record in path.
func LoadFile(path string) ([]*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	recs, err := Decode(path, FormatOf(path), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return recs, nil
}

// Decode reads records of the given format from r, attributing them to source.
func Decode(source string, format Format, r io.Reader) ([]*Record, error) {
	var values []any
	switch format {
	case FormatJSON:
		var v any
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, err
		}
		values = explode(v)

	case FormatJSONLines:
		scanner := newScanner(r)
		for line := 1; scanner.Scan(); line++ {
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			var v any
			dec := json.NewDecoder(strings.NewReader(text))
			dec.UseNumber()
			if err := dec.Decode(&v); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			values = append(values, v)
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}

	case FormatYAML:
		dec := yaml.NewDecoder(r)
		for {
			var v any
			err := dec.Decode(&v)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			values = append(values, explode(v)...)
		}

	default:
		scanner := newScanner(r)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				values = append(values, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		recs := make([]*Record, len(values))
		for i, v := range values {
			recs[i] = &Record{Source: source, Index: i, Text: v.(string)}
		}
		return recs, nil
	}

	recs := make([]*Record, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		rec, err := structured(source, len(recs), v)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	return scanner
}

// explode turns a top-level list into its elements.
func explode(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}

func structured(source string, index int, v any) (*Record, error) {
	text, err := json.MarshalToString(v)
	if err != nil {
		return nil, fmt.Errorf("record %d: %w", index, err)
	}

	rec := &Record{Source: source, Index: index, Data: v, Text: text}
	if m, ok := v.(map[string]any); ok {
		rec.Fields = make(map[string]string, len(m))
		for key, val := range m {
			if s, ok := scalar(val); ok && key != "" {
				rec.Fields[key] = s
			}
		}
		rec.Kind = rec.Fields[KindField]
	}
	return rec, nil
}

func scalar(v any) (string, bool) {
	switch v.(type) {
	case nil, map[string]any, []any:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

// LoadFiles loads paths concurrently and returns their records in path order.
func LoadFiles(ctx context.Context, paths []string) ([]*Record, error) {
	loaded := make([][]*Record, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			recs, err := LoadFile(path)
			if err != nil {
				return err
			}
			loaded[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*Record
	for _, recs := range loaded {
		all = append(all, recs...)
	}
	return all, nil
}

// Discover lists files under dir whose extension is in exts (all files when
// exts is empty), skipping hidden files and directories. Sorted.
func Discover(dir string, exts []string) ([]string, error) {
	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = true
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if len(allowed) == 0 || allowed[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
