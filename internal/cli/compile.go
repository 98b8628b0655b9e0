package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loomlang/loom/internal/cache"
	"github.com/loomlang/loom/internal/compiler"
	"github.com/loomlang/loom/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output        string // output file path
	BindingsFile  string // CUE binding manifest
	ConfigFile    string // YAML compile options
	CachePath     string // compile cache database
	Prefix        bool
	Inline        bool
	RuntimeGlobal string
}

// CompileResult is the success payload of a compile run.
type CompileResult struct {
	Filename string `json:"filename"`
	Output   string `json:"output"`
	BuildID  string `json:"build_id,omitempty"`
	Cached   bool   `json:"cached"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <template-file>",
		Short: "Compile a template to a render function",
		Long: `Compile a template file to a JS render function.

Binding metadata comes from a CUE manifest (--bindings); compile options
can also be read from a YAML file (--config), with flags taking
precedence. With --cache, unchanged inputs are served from the cache.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // error output is handled by the formatter
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.BindingsFile, "bindings", "", "CUE binding manifest")
	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "YAML compile options file")
	cmd.Flags().StringVar(&opts.CachePath, "cache", "", "compile cache database path")
	cmd.Flags().BoolVar(&opts.Prefix, "prefix", false, "rewrite expressions against _ctx instead of a with-block")
	cmd.Flags().BoolVar(&opts.Inline, "inline", false, "resolve setup bindings in place (implies --prefix)")
	cmd.Flags().StringVar(&opts.RuntimeGlobal, "runtime-global", "", "global the helper preamble destructures from")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return commandError(formatter, ErrCodeIO, fmt.Sprintf("reading template: %v", err))
	}

	copts, err := resolveOptions(opts, path)
	if err != nil {
		return commandError(formatter, ErrCodeConfig, err.Error())
	}
	formatter.VerboseLog("Compiling %s (prefix=%v inline=%v, %d binding(s))",
		path, copts.PrefixIdentifiers, copts.Inline, len(copts.Bindings))

	var db *cache.Cache
	var key string
	if opts.CachePath != "" {
		db, err = cache.Open(opts.CachePath)
		if err != nil {
			return commandError(formatter, ErrCodeCache, err.Error())
		}
		defer db.Close()
		key = cacheKey(string(source), copts)
		cached, ok, err := db.Get(cmd.Context(), key)
		if err != nil {
			return commandError(formatter, ErrCodeCache, err.Error())
		}
		if ok {
			formatter.VerboseLog("Cache hit for %s", path)
			return emitResult(formatter, opts, CompileResult{
				Filename: path,
				Output:   cached,
				Cached:   true,
			})
		}
	}

	output, err := compiler.CompileString(string(source), copts)
	if err != nil {
		return compileFailure(formatter, err)
	}

	result := CompileResult{Filename: path, Output: output}
	if db != nil {
		result.BuildID, err = db.Put(cmd.Context(), key, path, output)
		if err != nil {
			return commandError(formatter, ErrCodeCache, err.Error())
		}
		formatter.VerboseLog("Cached build %s", result.BuildID)
	}
	return emitResult(formatter, opts, result)
}

// resolveOptions merges the YAML config, the CUE binding manifest and the
// command-line flags; flags win over the config file, and manifest
// bindings win over config bindings.
func resolveOptions(opts *CompileOptions, path string) (compiler.Options, error) {
	copts := compiler.Options{Filename: path}
	if opts.ConfigFile != "" {
		cfg, err := LoadConfig(opts.ConfigFile)
		if err != nil {
			return compiler.Options{}, err
		}
		copts.PrefixIdentifiers = cfg.PrefixIdentifiers
		copts.Inline = cfg.Inline
		copts.RuntimeGlobal = cfg.RuntimeGlobal
		if len(cfg.Bindings) > 0 {
			copts.Bindings = make(ir.BindingMetadata, len(cfg.Bindings))
			for name, kind := range cfg.Bindings {
				bt, err := ir.ParseBindingType(kind)
				if err != nil {
					return compiler.Options{}, fmt.Errorf("config binding %q: %w", name, err)
				}
				copts.Bindings[name] = bt
			}
		}
	}
	if opts.BindingsFile != "" {
		bindings, err := LoadBindings(opts.BindingsFile)
		if err != nil {
			return compiler.Options{}, err
		}
		if copts.Bindings == nil {
			copts.Bindings = bindings
		} else {
			for name, bt := range bindings {
				copts.Bindings[name] = bt
			}
		}
	}
	if opts.Prefix {
		copts.PrefixIdentifiers = true
	}
	if opts.Inline {
		copts.Inline = true
	}
	if opts.RuntimeGlobal != "" {
		copts.RuntimeGlobal = opts.RuntimeGlobal
	}
	return copts, nil
}

// cacheKey digests everything that affects the compiled output.
func cacheKey(source string, copts compiler.Options) string {
	names := make([]string, 0, len(copts.Bindings))
	for name := range copts.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	var bindings strings.Builder
	for _, name := range names {
		bindings.WriteString(name)
		bindings.WriteByte('=')
		bindings.WriteString(string(copts.Bindings[name]))
		bindings.WriteByte(';')
	}
	return cache.Key(
		source,
		strconv.FormatBool(copts.PrefixIdentifiers),
		strconv.FormatBool(copts.Inline),
		copts.RuntimeGlobal,
		bindings.String(),
	)
}

func emitResult(formatter *OutputFormatter, opts *CompileOptions, result CompileResult) error {
	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(result.Output), 0644); err != nil {
			return commandError(formatter, ErrCodeIO, fmt.Sprintf("writing output file: %v", err))
		}
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "Wrote render function to %s\n", opts.Output)
		return nil
	}
	fmt.Fprintln(formatter.Writer, result.Output)
	return nil
}

func compileFailure(formatter *OutputFormatter, err error) error {
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		_ = formatter.Error(ErrCodeParse, ce.Error(), nil)
		return WrapExitError(ExitFailure, "compilation failed", err)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitFailure, "compilation failed", err)
}

func commandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
