package main

import (
	"fmt"
	"math"

	"github.com/urfave/cli/v2"

	"github.com/olehkaliuzhnyi/xch-keygen/internal/config"
)

var (
	wordsFlag = cli.IntFlag{
		Name:    "words",
		Aliases: []string{"w"},
		Usage:   "mnemonic word count: 12 or 24",
		Value:   24,
	}
	addressesFlag = cli.Uint64Flag{
		Name:    "addresses",
		Aliases: []string{"a"},
		Usage:   "number of addresses to generate per branch",
		Value:   10,
	}
	offsetFlag = cli.Uint64Flag{
		Name:    "offset",
		Aliases: []string{"o"},
		Usage:   "index from which to begin generating addresses",
	}
	skipFlag = cli.UintFlag{
		Name:    "skip",
		Aliases: []string{"s"},
		Usage:   "indices to skip between addresses (sequential mode)",
	}
	randomFlag = cli.BoolFlag{
		Name:    "random",
		Aliases: []string{"r"},
		Usage:   "sample indices at random between offset and height",
	}
	heightFlag = cli.Uint64Flag{
		Name:  "height",
		Usage: "exclusive upper bound of random indices, raised to offset+addresses if lower",
	}
	fileFlag = cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "read the mnemonic from `PATH`",
	}
	promptFlag = cli.BoolFlag{
		Name:  "prompt",
		Usage: "ask for the mnemonic without echoing it",
	}
	publicKeyFlag = cli.StringFlag{
		Name:  "public-key",
		Usage: "derive observer addresses from a hex master public key",
	}
	prefixFlag = cli.StringFlag{
		Name:  "prefix",
		Usage: "address prefix: xch or txch",
		Value: "xch",
	}
	exportFlag = cli.StringSliceFlag{
		Name:    "export",
		Aliases: []string{"e"},
		Usage:   "import the key into a wallet: chia, sage (repeatable)",
	}
	privateFlag = cli.BoolFlag{
		Name:  "private",
		Usage: "export the mnemonic instead of the master public key",
	}
	nameFlag = cli.BoolFlag{
		Name:  "name",
		Usage: "label the exported key with three words derived from its fingerprint",
	}
	loginFlag = cli.BoolFlag{
		Name:  "login",
		Usage: "log Sage into the imported key",
	}
	exportTimeoutFlag = cli.DurationFlag{
		Name:  "export-timeout",
		Usage: "give up on a backend after this long, 0 waits forever",
	}
	chiaRootFlag = cli.StringFlag{
		Name:  "chia-root",
		Usage: "Chia root holding config/config.yaml and the daemon certificates",
	}
	sageDirFlag = cli.StringFlag{
		Name:  "sage-dir",
		Usage: "Sage data directory holding ssl/wallet.crt",
	}
	logLevelFlag = cli.StringFlag{
		Name:  "log-level",
		Usage: "debug, info, warn or error",
		Value: "warn",
	}
	noColorFlag = cli.BoolFlag{
		Name:  "no-color",
		Usage: "disable colored output",
	}
)

var flags = []cli.Flag{
	&wordsFlag,
	&addressesFlag,
	&offsetFlag,
	&skipFlag,
	&randomFlag,
	&heightFlag,
	&fileFlag,
	&promptFlag,
	&publicKeyFlag,
	&prefixFlag,
	&exportFlag,
	&privateFlag,
	&nameFlag,
	&loginFlag,
	&exportTimeoutFlag,
	&chiaRootFlag,
	&sageDirFlag,
	&logLevelFlag,
	&noColorFlag,
}

// applyFlags overrides cfg with every flag set on the command line.
func applyFlags(ctx *cli.Context, cfg *config.Config) error {
	if ctx.IsSet(wordsFlag.Name) {
		cfg.Words = ctx.Int(wordsFlag.Name)
	}
	for name, dst := range map[string]*uint32{
		addressesFlag.Name: &cfg.Addresses,
		offsetFlag.Name:    &cfg.Offset,
		heightFlag.Name:    &cfg.Height,
	} {
		if !ctx.IsSet(name) {
			continue
		}
		v := ctx.Uint64(name)
		if v > math.MaxUint32 {
			return fmt.Errorf("--%s %d does not fit in 32 bits", name, v)
		}
		*dst = uint32(v)
	}
	if ctx.IsSet(skipFlag.Name) {
		cfg.Skip = ctx.Uint(skipFlag.Name)
	}
	if ctx.IsSet(randomFlag.Name) {
		cfg.Random = ctx.Bool(randomFlag.Name)
	}

	if ctx.IsSet(fileFlag.Name) {
		cfg.PhraseFile = ctx.String(fileFlag.Name)
	}
	if ctx.IsSet(promptFlag.Name) {
		cfg.Prompt = ctx.Bool(promptFlag.Name)
	}
	if ctx.IsSet(publicKeyFlag.Name) {
		cfg.PublicKey = ctx.String(publicKeyFlag.Name)
	}
	if ctx.IsSet(prefixFlag.Name) {
		cfg.Prefix = ctx.String(prefixFlag.Name)
	}

	if ctx.IsSet(exportFlag.Name) {
		cfg.Export = ctx.StringSlice(exportFlag.Name)
	}
	if ctx.IsSet(privateFlag.Name) {
		cfg.Private = ctx.Bool(privateFlag.Name)
	}
	if ctx.IsSet(nameFlag.Name) {
		cfg.Name = ctx.Bool(nameFlag.Name)
	}
	if ctx.IsSet(loginFlag.Name) {
		cfg.Login = ctx.Bool(loginFlag.Name)
	}
	if ctx.IsSet(exportTimeoutFlag.Name) {
		cfg.ExportTimeout = ctx.Duration(exportTimeoutFlag.Name)
	}

	if ctx.IsSet(chiaRootFlag.Name) {
		cfg.ChiaRoot = ctx.String(chiaRootFlag.Name)
	}
	if ctx.IsSet(sageDirFlag.Name) {
		cfg.SageDir = ctx.String(sageDirFlag.Name)
	}
	if ctx.IsSet(logLevelFlag.Name) {
		cfg.LogLevel = ctx.String(logLevelFlag.Name)
	}
	return nil
}
