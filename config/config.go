package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"reflect"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

var stagehandHomeDir string

// Main holds CLI flag defaults and Environments holds per-environment overrides.
var Main *File
var Environments *File

func init() {
	Main = NewConfigFileWithDir(mustGetConfigHomeDir(), MainFileFullName)
	Environments = NewConfigFileWithDir(mustGetConfigHomeDir(), EnvironmentsFileFullName)
}

const (
	MainDir                    = ".stagehand"
	MainFileNamePrefix         = "config"
	MainFileNameExt            = "yaml"
	MainFileFullName           = MainFileNamePrefix + "." + MainFileNameExt
	EnvironmentsFileNamePrefix = "environments"
	EnvironmentsFileNameExt    = "yaml"
	EnvironmentsFileFullName   = EnvironmentsFileNamePrefix + "." + EnvironmentsFileNameExt
)

// Getter fetches a key from a config store into out, which must be a pointer.
type Getter interface {
	Get(key string, out interface{}) error
}

// FileNotFoundError denotes failing to find configuration file.
type FileNotFoundError struct {
	name string
}

// Error returns the formatted configuration error.
func (f FileNotFoundError) Error() string {
	return fmt.Sprintf("config file %q not found", f.name)
}

type KeyNotFoundError struct {
	configFile string
	key        string
	err        error
}

func (k KeyNotFoundError) Error() string {
	if k.err != nil {
		return fmt.Sprintf("key %q not found in config file %q: %v", k.key, k.configFile, k.err)
	}
	return fmt.Sprintf("key %q not found in config file %q", k.key, k.configFile)
}

// File is a read-only YAML config file whose top level keys are decoded on demand.
type File struct {
	Dirname      string
	FileName     string
	FilePrefix   string
	FileExt      string
	FullPath     string
	data         map[string]interface{}
	dataIsLoaded bool
	mu           sync.Mutex
}

func NewConfigFileWithDir(dirName string, filename string) *File {
	return NewConfigFile(path.Join(dirName, filename))
}

// NewConfigFile returns a File for the full path supplied.
func NewConfigFile(fullPath string) *File {
	c := &File{FullPath: fullPath}
	c.Dirname, c.FileName = path.Split(fullPath)
	c.FileExt = strings.TrimLeft(path.Ext(c.FileName), ".")
	c.FilePrefix = strings.TrimSuffix(c.FileName, "."+c.FileExt)
	c.data = make(map[string]interface{})
	return c
}

// Get will fetch the key from the config File into variable, out.
// Slices and maps found under key replace, rather than merge with, values already in out.
// A missing file behaves like an empty one, so callers see KeyNotFoundError in both cases.
func (c *File) Get(key string, out interface{}) error {
	if reflect.ValueOf(out).Kind() != reflect.Ptr {
		return errors.New("out must be a pointer")
	}
	if err := c.loadData(); err != nil && !errors.As(err, &FileNotFoundError{}) {
		return err
	}
	d, ok := c.data[key]
	if !ok { // if the key was not found...
		return KeyNotFoundError{configFile: c.FullPath, key: key}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ZeroFields:       true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(d); err != nil {
		return fmt.Errorf("error decoding key %q in config file %q: %w", key, c.FullPath, err)
	}
	return nil
}

func (c *File) loadData() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dataIsLoaded {
		return nil
	}
	b, err := ioutil.ReadFile(c.FullPath)
	if os.IsNotExist(err) {
		c.dataIsLoaded = true
		return FileNotFoundError{name: c.FullPath}
	} else if err != nil {
		return err
	}
	if err = yaml.Unmarshal(b, &c.data); err != nil {
		return fmt.Errorf("error parsing config file %v: %w", c.FullPath, err)
	}
	c.dataIsLoaded = true
	return nil
}
