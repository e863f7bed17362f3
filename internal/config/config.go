package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/olehkaliuzhnyi/xch-keygen/internal/address"
	"github.com/olehkaliuzhnyi/xch-keygen/internal/index"
	"github.com/olehkaliuzhnyi/xch-keygen/internal/mnemonic"
)

// ErrInvalidConfig is returned by Validate and by FromEnv.
var ErrInvalidConfig = errors.New("invalid configuration")

// Environment keys, read with the XCHKEYS_ prefix.
const (
	WordsKey         = "WORDS"
	AddressesKey     = "ADDRESSES"
	OffsetKey        = "OFFSET"
	SkipKey          = "SKIP"
	RandomKey        = "RANDOM"
	HeightKey        = "HEIGHT"
	PrefixKey        = "PREFIX"
	ExportKey        = "EXPORT"
	PrivateKey       = "PRIVATE"
	NameKey          = "NAME"
	LoginKey         = "LOGIN"
	ExportTimeoutKey = "EXPORT_TIMEOUT"
	ChiaRootKey      = "CHIA_ROOT"
	SageDirKey       = "SAGE_DIR"
	LogLevelKey      = "LOG_LEVEL"

	envPrefix = "XCHKEYS"
)

// Config holds every parameter of a run.
type Config struct {
	// Mnemonic
	Words      int
	PhraseFile string
	Prompt     bool
	// PublicKey switches to observer mode: a hex master public key replaces
	// the mnemonic and only the unhardened branch is derived.
	PublicKey string

	// Index enumeration
	Addresses uint32
	Offset    uint32
	Skip      uint
	Random    bool
	Height    uint32

	Prefix string

	// Export
	Export  []string
	Private bool
	Name    bool
	Login   bool
	// ExportTimeout bounds each backend exchange. Zero waits indefinitely.
	ExportTimeout time.Duration

	ChiaRoot string
	SageDir  string

	LogLevel string
}

// Default returns a Config populated with default values.
func Default() Config {
	return Config{
		Words:     24,
		Addresses: 10,
		Prefix:    address.PrefixMainnet,
		ChiaRoot:  DefaultChiaRoot(),
		SageDir:   DefaultSageDir(),
		LogLevel:  "warn",
	}
}

// FromEnv returns a Config populated from XCHKEYS_* environment variables,
// falling back to defaults for unset values. CHIA_ROOT is honoured as well.
// A set value that does not parse as its field's type is an error.
func FromEnv() (Config, error) {
	def := Default()

	vip := viper.New()
	vip.SetEnvPrefix(envPrefix)
	vip.AutomaticEnv()
	_ = vip.BindEnv(ChiaRootKey, envPrefix+"_"+ChiaRootKey, "CHIA_ROOT")

	vip.SetDefault(WordsKey, def.Words)
	vip.SetDefault(AddressesKey, def.Addresses)
	vip.SetDefault(OffsetKey, def.Offset)
	vip.SetDefault(SkipKey, def.Skip)
	vip.SetDefault(RandomKey, def.Random)
	vip.SetDefault(HeightKey, def.Height)
	vip.SetDefault(PrefixKey, def.Prefix)
	vip.SetDefault(ExportKey, "")
	vip.SetDefault(PrivateKey, false)
	vip.SetDefault(NameKey, false)
	vip.SetDefault(LoginKey, false)
	vip.SetDefault(ExportTimeoutKey, def.ExportTimeout)
	vip.SetDefault(ChiaRootKey, def.ChiaRoot)
	vip.SetDefault(SageDirKey, def.SageDir)
	vip.SetDefault(LogLevelKey, def.LogLevel)

	env := envReader{vip: vip}
	cfg := Config{
		Words:         env.toInt(WordsKey),
		Addresses:     env.toUint32(AddressesKey),
		Offset:        env.toUint32(OffsetKey),
		Skip:          env.toUint(SkipKey),
		Random:        env.toBool(RandomKey),
		Height:        env.toUint32(HeightKey),
		Prefix:        vip.GetString(PrefixKey),
		Export:        SplitList(vip.GetString(ExportKey)),
		Private:       env.toBool(PrivateKey),
		Name:          env.toBool(NameKey),
		Login:         env.toBool(LoginKey),
		ExportTimeout: env.toDuration(ExportTimeoutKey),
		ChiaRoot:      vip.GetString(ChiaRootKey),
		SageDir:       vip.GetString(SageDirKey),
		LogLevel:      vip.GetString(LogLevelKey),
	}
	if env.err != nil {
		return Config{}, env.err
	}
	return cfg, nil
}

// envReader converts viper values with cast and keeps every failure, where
// viper's own getters would quietly return zero.
type envReader struct {
	vip *viper.Viper
	err error
}

func (r *envReader) fail(key string, err error) {
	r.err = errors.Join(r.err, fmt.Errorf("%w: %s_%s=%q: %v",
		ErrInvalidConfig, envPrefix, key, cast.ToString(r.vip.Get(key)), err))
}

func (r *envReader) toInt(key string) int {
	n, err := cast.ToIntE(r.vip.Get(key))
	if err != nil {
		r.fail(key, err)
	}
	return n
}

func (r *envReader) toUint(key string) uint {
	n, err := cast.ToUint64E(r.vip.Get(key))
	if err != nil {
		r.fail(key, err)
		return 0
	}
	if n > math.MaxUint {
		r.fail(key, errors.New("out of range"))
		return 0
	}
	return uint(n)
}

func (r *envReader) toUint32(key string) uint32 {
	n, err := cast.ToUint64E(r.vip.Get(key))
	if err != nil {
		r.fail(key, err)
		return 0
	}
	if n > math.MaxUint32 {
		r.fail(key, errors.New("out of range"))
		return 0
	}
	return uint32(n)
}

func (r *envReader) toBool(key string) bool {
	b, err := cast.ToBoolE(r.vip.Get(key))
	if err != nil {
		r.fail(key, err)
	}
	return b
}

func (r *envReader) toDuration(key string) time.Duration {
	d, err := cast.ToDurationE(r.vip.Get(key))
	if err != nil {
		r.fail(key, err)
	}
	return d
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate rejects combinations no run can satisfy.
func (c Config) Validate() error {
	if !mnemonic.SupportedWordCount(c.Words) {
		return fmt.Errorf("%w: %d words, want 12 or 24", ErrInvalidConfig, c.Words)
	}
	if !address.ValidPrefix(c.Prefix) {
		return fmt.Errorf("%w: unknown address prefix %q", ErrInvalidConfig, c.Prefix)
	}
	if c.ObserverMode() && c.Private {
		return fmt.Errorf("%w: private export needs a mnemonic, not a public key", ErrInvalidConfig)
	}
	if c.ExportTimeout < 0 {
		return fmt.Errorf("%w: negative export timeout", ErrInvalidConfig)
	}
	if _, err := c.SlogLevel(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ObserverMode reports whether the run derives from a public key only.
func (c Config) ObserverMode() bool {
	return c.PublicKey != ""
}

// IndexParams maps the enumeration settings.
func (c Config) IndexParams() index.Params {
	return index.Params{
		Offset: c.Offset,
		Count:  c.Addresses,
		Skip:   c.Skip,
		Random: c.Random,
		Height: c.Height,
	}
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
