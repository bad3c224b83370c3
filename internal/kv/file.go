package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"
	yaml "gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatTOML = "toml"
)

// File keeps every key in a single document on disk. Values must be JSON; they are
// stored structurally so the document stays readable in json, yaml, or toml.
// Every operation holds an exclusive lock on path + ".lock".
type File struct {
	mu     sync.Mutex
	path   string
	format string
	flk    *flock.Flock
}

// NewFile creates a file-backed store. An empty format is inferred from the extension.
func NewFile(path, format string) (*File, error) {
	resolved, err := resolveFormat(path, format)
	if err != nil {
		return nil, err
	}
	return &File{
		path:   path,
		format: resolved,
		flk:    flock.New(path + ".lock"),
	}, nil
}

func resolveFormat(path, format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = formatYAML
		case ".toml":
			format = formatTOML
		default:
			format = formatJSON
		}
	}
	switch format {
	case formatJSON, formatYAML, formatTOML:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported file format %q: supported formats are json, yaml, toml", format)
	}
}

// Format returns the document encoding in use.
func (f *File) Format() string { return f.format }

// Get returns the JSON encoding of the value stored under key.
func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.flk.Lock(); err != nil {
		return nil, fmt.Errorf("lock %s: %w", f.path, err)
	}
	defer func() { _ = f.flk.Unlock() }()

	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	v, ok := doc[key]
	if !ok || v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode key %q: %w", key, err)
	}
	return data, nil
}

// Set stores value under key. A JSON null or empty value removes the key.
func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var v any
	if len(bytes.TrimSpace(value)) > 0 {
		if err := json.Unmarshal(value, &v); err != nil {
			return fmt.Errorf("decode value for %q: %w", key, err)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.flk.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", f.path, err)
	}
	defer func() { _ = f.flk.Unlock() }()

	doc, err := f.load()
	if err != nil {
		return err
	}
	if v == nil {
		delete(doc, key)
	} else {
		doc[key] = v
	}
	return f.save(doc)
}

// Close releases the lock handle.
func (f *File) Close() error {
	return f.flk.Close()
}

func (f *File) load() (map[string]any, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	doc := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	switch f.format {
	case formatYAML:
		err = yaml.Unmarshal(data, &doc)
	case formatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func (f *File) save(doc map[string]any) error {
	var buf bytes.Buffer
	var err error
	switch f.format {
	case formatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		err = enc.Encode(doc)
		if err == nil {
			err = enc.Close()
		}
	case formatTOML:
		err = toml.NewEncoder(&buf).Encode(doc)
	default:
		var data []byte
		data, err = json.MarshalIndent(doc, "", "  ")
		buf.Write(data)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.format, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	log.Debug().Str("path", f.path).Str("format", f.format).Msg("kv: saved")
	return nil
}
