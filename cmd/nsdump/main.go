// nsdump resolves the namespace table of an ABC constant pool and prints it.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"

	"github.com/chazu/avmns/abc"
	"github.com/chazu/avmns/avm"
	"github.com/chazu/avmns/manifest"
	"github.com/chazu/avmns/namespace"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	format     string
	builtin    bool
	swfVersion uint8
	configDir  string
	match      []string
	emitCBOR   string
	verbose    int
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options

	flags := pflag.NewFlagSet("nsdump", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.format, "format", "f", "cbor", "Input format: cbor (fixture) or abc (raw string and namespace sections)")
	flags.BoolVar(&opts.builtin, "builtin", false, "Load the pool into playerglobals (abc format only; fixtures carry their own flag)")
	flags.Uint8VarP(&opts.swfVersion, "swf-version", "s", 0, "SWF version of the content (overrides the fixture)")
	flags.StringVarP(&opts.configDir, "config", "c", "", "Directory holding avmns.toml (default: search upward from the working directory)")
	flags.StringArrayVarP(&opts.match, "match", "m", nil, "Compare two namespace indices, e.g. --match 3,5")
	flags.StringVar(&opts.emitCBOR, "emit-cbor", "", "Write the loaded pool as a CBOR fixture to this path")
	flags.CountVarP(&opts.verbose, "verbose", "v", "Increase log verbosity")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: nsdump [options] <pool-file>\n\n")
		fmt.Fprintf(stderr, "Resolves every namespace constant of a pool and prints it.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  nsdump main.cbor                 # Dump a fixture\n")
		fmt.Fprintf(stderr, "  nsdump -f abc --builtin pg.bin   # Dump raw builtin sections\n")
		fmt.Fprintf(stderr, "  nsdump main.cbor -m 2,4          # Check visibility of 2 through 4\n")
	}
	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return 2
	}

	m, err := loadManifest(opts.configDir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	commonlog.Configure(m.Log.Verbosity+opts.verbose, m.LogFile())

	rtOpts, err := m.Options()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	rt := avm.NewRuntime(rtOpts)

	for _, path := range m.BuiltinPaths() {
		if err := loadBuiltinFixture(rt, path); err != nil {
			fmt.Fprintf(stderr, "Error: builtins %s: %v\n", path, err)
			return 1
		}
	}

	fixture, err := readFixture(flags.Arg(0), opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opts.emitCBOR != "" {
		data, err := abc.MarshalFixture(fixture)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if err := os.WriteFile(opts.emitCBOR, data, 0644); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	var tu *avm.TranslationUnit
	if fixture.Builtin {
		tu = rt.LoadBuiltins(&fixture.Pool)
	} else {
		tu = rt.LoadContent(&fixture.Pool, rt.NewDomain(flags.Arg(0)), fixture.SWFVersion)
	}

	status := dump(stdout, tu)

	for _, pair := range opts.match {
		if err := compare(stdout, tu, pair); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			status = 1
		}
	}
	return status
}

func loadManifest(dir string) (*manifest.Manifest, error) {
	if dir != "" {
		return manifest.Load(dir)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	m, err := manifest.FindAndLoad(wd)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return manifest.Default(), nil
	}
	return m, nil
}

func loadBuiltinFixture(rt *avm.Runtime, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f, err := abc.UnmarshalFixture(data)
	if err != nil {
		return err
	}
	_, err = rt.LoadBuiltins(&f.Pool).Namespaces()
	return err
}

func readFixture(path string, opts options) (*abc.Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f *abc.Fixture
	switch opts.format {
	case "cbor":
		f, err = abc.UnmarshalFixture(data)
		if err != nil {
			return nil, err
		}
	case "abc":
		pool, err := abc.NewReaderFromBytes(data).ReadPool()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		f = &abc.Fixture{Pool: *pool, Builtin: opts.builtin}
	default:
		return nil, fmt.Errorf("unknown format %q", opts.format)
	}

	if opts.swfVersion != 0 {
		f.SWFVersion = opts.swfVersion
	}
	return f, nil
}

// dump prints one line per namespace constant and returns 1 if any failed.
func dump(w io.Writer, tu *avm.TranslationUnit) int {
	status := 0
	fmt.Fprintf(w, "# %v api-version=%v\n", tu.Domain(), tu.APIVersion())
	for i := 0; i < tu.Pool().NamespaceCount(); i++ {
		ns, err := tu.PoolNamespace(abc.Index(i))
		if err != nil {
			fmt.Fprintf(w, "%4d  error: %v\n", i, err)
			status = 1
			continue
		}
		fmt.Fprintf(w, "%4d  %s\n", i, describe(ns))
	}
	return status
}

func describe(ns namespace.Namespace) string {
	if v, ok := ns.Version(); ok {
		return fmt.Sprintf("%-16s %-28q %v", ns.Kind(), ns.AsURI(), v)
	}
	if ns.IsAny() {
		return "*"
	}
	return fmt.Sprintf("%-16s %q", ns.Kind(), ns.AsURI())
}

func compare(w io.Writer, tu *avm.TranslationUnit, pair string) error {
	parts := strings.Split(pair, ",")
	if len(parts) != 2 {
		return fmt.Errorf("--match wants two comma-separated indices, got %q", pair)
	}

	var nss [2]namespace.Namespace
	for i, p := range parts {
		idx, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return fmt.Errorf("--match %q: %w", pair, err)
		}
		nss[i], err = tu.PoolNamespace(abc.Index(idx))
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "match %s: exact=%v visible=%v\n",
		pair, nss[0].ExactVersionMatch(nss[1]), nss[0].MatchesNS(nss[1]))
	return nil
}
