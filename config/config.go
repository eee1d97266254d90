package config

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/curtisnewbie/ecbaes/logger"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

var (
	// regex for arg expansion
	resolveArgRegexp = regexp.MustCompile(`\${[a-zA-Z0-9\\-\\_\.]+}`)

	defPropMu       sync.Mutex
	setDefPropFuncs []func() (k string, defVal any)

	global = NewAppConfig()
)

type AppConfig struct {
	vp   *viper.Viper
	rwmu *sync.RWMutex
}

// Create AppConfig with every registered default applied.
func NewAppConfig() *AppConfig {
	a := &AppConfig{
		vp:   viper.New(),
		rwmu: &sync.RWMutex{},
	}
	defPropMu.Lock()
	defer defPropMu.Unlock()
	for _, f := range setDefPropFuncs {
		a.SetDefProp(f())
	}
	return a
}

// Global AppConfig used by the package level funcs.
func Global() *AppConfig {
	return global
}

// Set value for the prop
func (a *AppConfig) SetProp(prop string, val any) {
	doWithWriteLock(a, func() {
		a.vp.Set(prop, val)
	})
}

// Set default value for the prop
func (a *AppConfig) SetDefProp(prop string, defVal any) {
	doWithWriteLock(a, func() {
		a.vp.SetDefault(prop, defVal)
	})
}

// Check whether the prop exists
func (a *AppConfig) HasProp(prop string) bool {
	return returnWithReadLock(a, func() bool { return a.vp.IsSet(prop) })
}

// Get prop as string slice
func (a *AppConfig) GetPropStrSlice(prop string) []string {
	return returnWithReadLock(a, func() []string { return cast.ToStringSlice(a.vp.Get(prop)) })
}

// Get prop as int, values that can't be converted are treated as 0.
func (a *AppConfig) GetPropInt(prop string) int {
	v := returnWithReadLock(a, func() any { return a.vp.Get(prop) })
	if s, ok := v.(string); ok {
		v = a.ResolveArg(s)
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		logger.Warnf("Prop '%v' is not an int, %v", prop, err)
		return 0
	}
	return i
}

// Get prop as time.Duration
func (a *AppConfig) GetPropDur(prop string, unit time.Duration) time.Duration {
	return time.Duration(a.GetPropInt(prop)) * unit
}

// Get prop as bool
func (a *AppConfig) GetPropBool(prop string) bool {
	return returnWithReadLock(a, func() bool { return cast.ToBool(a.vp.Get(prop)) })
}

/*
Get prop as string

If the value is an argument that can be expanded, the actual value will be resolved if possible.

e.g, for "name" : "${secretName}".

This func will attempt to resolve the actual value for '${secretName}'.
*/
func (a *AppConfig) GetPropStr(prop string) string {
	return a.ResolveArg(returnWithReadLock(a, func() string { return cast.ToString(a.vp.Get(prop)) }))
}

// Overwrite existing conf using environment and cli args.
func (a *AppConfig) OverwriteConf(args []string) {
	// overwrite loaded configuration with environment variables
	a.overwriteConf(ArgKeyVal(os.Environ()))
	// overwrite the loaded configuration with cli arguments
	a.overwriteConf(ArgKeyVal(args))
}

/*
Default way to read config file.

Repetitively calling this method overides previously loaded config.

This func is essentially:

	LoadConfigFromFile(GuessConfigFilePath(args))

Notice that the loaded configuration can be overriden by the cli arguments as well by using `KEY=VALUE` syntax.
*/
func (a *AppConfig) DefaultReadConfig(args []string) {
	loaded := map[string]struct{}{}

	defConfigFile := GuessConfigFilePath(args)
	loaded[defConfigFile] = struct{}{}

	if err := a.LoadConfigFromFile(defConfigFile); err != nil {
		logger.Debugf("Failed to load config file, file: %v, %v", defConfigFile, err)
	} else {
		logger.Infof("Loaded config file: %v", defConfigFile)
	}

	a.OverwriteConf(args)

	// extra files may come from the config file, env or cli args
	for _, f := range a.GetPropStrSlice(PropConfigExtraFiles) {
		if _, ok := loaded[f]; ok {
			continue
		}
		loaded[f] = struct{}{}

		if _, err := os.Stat(f); err != nil {
			logger.Debugf("Extra config file %v not found, %v", f, err)
			continue
		}
		if err := a.LoadConfigFromFile(f); err != nil {
			logger.Warnf("Failed to load extra config file, %v, %v", f, err)
		} else {
			logger.Infof("Loaded extra config file: %v", f)
		}
	}

	// cli args always win
	if len(loaded) > 1 {
		a.OverwriteConf(args)
	}
}

// Load config from io Reader.
//
// It's the caller's responsibility to close the provided reader.
//
// Calling this method overides previously loaded config.
func (a *AppConfig) LoadConfigFromReader(reader io.Reader) error {
	var eo error

	doWithWriteLock(a, func() {
		a.vp.SetConfigType("yml")
		if err := a.vp.MergeConfig(reader); err != nil {
			eo = fmt.Errorf("failed to load config from reader: %v", err)
		}
	})

	return eo
}

// Load config from string.
//
// Calling this method overides previously loaded config.
func (a *AppConfig) LoadConfigFromStr(s string) error {
	return a.LoadConfigFromReader(strings.NewReader(s))
}

// Load config from file.
//
// Calling this method overides previously loaded config.
func (a *AppConfig) LoadConfigFromFile(configFile string) error {
	if configFile == "" {
		return nil
	}

	f, err := os.Open(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("unable to find config file: '%s'", configFile)
		}
		return fmt.Errorf("failed to open config file: '%s', %v", configFile, err)
	}
	defer f.Close()

	err = a.LoadConfigFromReader(f)
	if err != nil {
		return fmt.Errorf("failed to load config file: '%s', %v", configFile, err)
	}
	logger.Debugf("Loaded config file: '%v'", configFile)
	return nil
}

func (a *AppConfig) overwriteConf(kvs map[string][]string) {
	for k, v := range kvs {
		if len(v) == 1 {
			a.SetProp(k, v[0])
		} else {
			a.SetProp(k, v)
		}
	}
}

// Resolve argument, e.g., for arg like '${someArg}', it will in fact look for 'someArg' in os.Env
func (a *AppConfig) ResolveArg(arg string) string {
	return resolveArgRegexp.ReplaceAllStringFunc(arg, func(s string) string {
		key := s[2 : len(s)-1]
		val := os.Getenv(key)

		if val == "" {
			val = a.GetPropStr(key)
		}

		if val == "" {
			val = s
		}
		return val
	})
}

// Set value for the prop
func SetProp(prop string, val any) {
	global.SetProp(prop, val)
}

// Register default value for the prop.
//
// The default is applied to the global AppConfig and to every AppConfig created afterwards.
func SetDefProp(prop string, defVal any) {
	defPropMu.Lock()
	setDefPropFuncs = append(setDefPropFuncs, func() (string, any) { return prop, defVal })
	defPropMu.Unlock()

	if global != nil {
		global.SetDefProp(prop, defVal)
	}
}

// Check whether the prop exists
func HasProp(prop string) bool {
	return global.HasProp(prop)
}

// Get prop as string slice
func GetPropStrSlice(prop string) []string {
	return global.GetPropStrSlice(prop)
}

// Get prop as int
func GetPropInt(prop string) int {
	return global.GetPropInt(prop)
}

// Get prop as time.Duration
func GetPropDur(prop string, unit time.Duration) time.Duration {
	return global.GetPropDur(prop, unit)
}

// Get prop as bool
func GetPropBool(prop string) bool {
	return global.GetPropBool(prop)
}

// Get prop as string, '${someArg}' style values are resolved.
func GetPropStr(prop string) string {
	return global.GetPropStr(prop)
}

// Default way to read config file, see (*AppConfig).DefaultReadConfig.
func DefaultReadConfig(args []string) {
	global.DefaultReadConfig(args)
}

// Load config from string.
func LoadConfigFromStr(s string) error {
	return global.LoadConfigFromStr(s)
}

// Load config from file.
func LoadConfigFromFile(configFile string) error {
	return global.LoadConfigFromFile(configFile)
}

// Resolve '${someArg}' style variables.
func ResolveArg(arg string) string {
	return global.ResolveArg(arg)
}

// call with viper lock
func doWithWriteLock(a *AppConfig, f func()) {
	a.rwmu.Lock()
	defer a.rwmu.Unlock()
	f()
}

func returnWithReadLock[T any](a *AppConfig, f func() T) T {
	a.rwmu.RLock()
	defer a.rwmu.RUnlock()
	return f()
}

// Parse CLI args to key-value map
func ArgKeyVal(args []string) map[string][]string {
	m := map[string][]string{}
	for _, s := range args {
		var eq int = strings.Index(s, "=")
		if eq == -1 {
			continue
		}

		key := strings.TrimSpace(s[:eq])
		val := strings.TrimSpace(s[eq+1:])
		if prev, ok := m[key]; ok {
			m[key] = append(prev, val)
		} else {
			m[key] = []string{val}
		}
	}
	return m
}

// Guess config file path.
//
// It first looks for the arg that matches the pattern "configFile=/path/to/configFile".
// If none is found, it's by default 'conf.yml'.
func GuessConfigFilePath(args []string) string {
	path := ExtractArgValue(args, func(key string) bool { return key == "configFile" })
	if strings.TrimSpace(path) == "" {
		path = "conf.yml"
	}
	return path
}

/*
Parse CLI Arg to extract a value from arg, [key]=[value]

e.g.,

To look for 'configFile=?'.

	path := ExtractArgValue(args, func(key string) bool { return key == "configFile" }).
*/
func ExtractArgValue(args []string, predicate func(key string) bool) string {
	for _, s := range args {
		var eq int = strings.Index(s, "=")
		if eq != -1 {
			if key := s[:eq]; predicate(key) {
				return s[eq+1:]
			}
		}
	}
	return ""
}
