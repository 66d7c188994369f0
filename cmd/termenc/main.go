package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/wippyai/term-encoding/atoms"
	"github.com/wippyai/term-encoding/builtin"
	"github.com/wippyai/term-encoding/target"
	"github.com/wippyai/term-encoding/wasm"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const usage = `Usage: termenc <command> [flags] [args]

Commands:
  inspect [-target t] [-atoms file] [-i] word...   classify words
  encode  [-target t] [-header] kind payload       build a word
  atoms   [-o file] [-format wasm|cbor] name...    generate an atom table
  dump    file                                     print an atom table
  targets                                          list known targets

Every command accepts -config (default termenc.toml).
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	args := os.Args[2:]
	switch os.Args[1] {
	case "inspect":
		err = runInspect(args, os.Stdout)
	case "encode":
		err = runEncode(args, os.Stdout)
	case "atoms":
		err = runAtoms(args, os.Stdout)
	case "dump":
		err = runDump(args, os.Stdout)
	case "targets":
		err = runTargets(args, os.Stdout)
	case "help", "-h", "--help":
		fmt.Fprint(os.Stdout, usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// session holds what every command needs after flag parsing.
type session struct {
	cfg    Config
	log    *zap.Logger
	target target.Spec
}

type commonFlags struct {
	config *string
	target *string
}

func newFlagSet(name string) (*flag.FlagSet, commonFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return fs, commonFlags{
		config: fs.String("config", "", "Path to termenc.toml"),
		target: fs.String("target", "", "Target triple (default: config, then host)"),
	}
}

func (c commonFlags) open() (*session, error) {
	cfg, err := loadConfig(*c.config)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	atoms.SetLogger(log)
	builtin.SetLogger(log)

	triple := *c.target
	if triple == "" {
		triple = cfg.Target.Triple
	}
	spec := target.Host()
	if triple != "" {
		if spec, err = target.Resolve(triple); err != nil {
			return nil, err
		}
	}
	log.Debug("session",
		zap.String("target", spec.Triple),
		zap.Stringer("encoding", spec.Encoding))
	return &session{cfg: cfg, log: log, target: spec}, nil
}

func (s *session) table(ctx context.Context, path string) (*atoms.Table, error) {
	if path == "" {
		path = s.cfg.Atoms.Table
	}
	if path == "" {
		return nil, nil
	}
	if err := atoms.Init(func() (*atoms.Table, error) { return atoms.LoadFile(ctx, path) }); err != nil {
		return nil, err
	}
	return atoms.Default()
}

func runInspect(args []string, out io.Writer) error {
	fs, common := newFlagSet("inspect")
	atomsPath := fs.String("atoms", "", "Atom table used to name atoms")
	interactive := fs.Bool("i", false, "Interactive mode with TUI")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sess, err := common.open()
	if err != nil {
		return err
	}
	defer sess.log.Sync()

	tab, err := sess.table(context.Background(), *atomsPath)
	if err != nil {
		return err
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode requires a terminal")
		}
		return runInteractive(sess.target, tab)
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("inspect: no words given")
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, arg := range fs.Args() {
		w, err := parseWord(arg)
		if err != nil {
			return err
		}
		d, err := describe(sess.target.Encoding, w, tab)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%#x\t%s\t%s\n", w, d.tag, d.detail)
	}
	return tw.Flush()
}

func runEncode(args []string, out io.Writer) error {
	fs, common := newFlagSet("encode")
	header := fs.Bool("header", false, "Build a header word; payload is the arity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("encode: want <kind> <payload>")
	}
	sess, err := common.open()
	if err != nil {
		return err
	}
	defer sess.log.Sync()

	payload, err := parsePayload(fs.Arg(1))
	if err != nil {
		return err
	}
	w, err := encodeWord(sess.target.EncodingInfo(), fs.Arg(0), payload, *header)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%#x\n", w)
	return nil
}

func runAtoms(args []string, out io.Writer) error {
	fs, common := newFlagSet("atoms")
	output := fs.String("o", "", "Output file (default from config)")
	format := fs.String("format", "", "Artifact format: wasm or cbor")
	from := fs.String("from", "", "File with one atom name per line")
	buildID := fs.String("build-id", "", "Build id to stamp (default: derived from contents)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sess, err := common.open()
	if err != nil {
		return err
	}
	defer sess.log.Sync()

	names := append([]string{}, sess.cfg.Atoms.Names...)
	names = append(names, fs.Args()...)
	if *from != "" {
		more, err := readNames(*from)
		if err != nil {
			return err
		}
		names = append(names, more...)
	}

	var opts atoms.GenerateOptions
	if *buildID != "" {
		if opts.BuildID, err = uuid.Parse(*buildID); err != nil {
			return fmt.Errorf("build id: %w", err)
		}
	}

	f := *format
	if f == "" {
		f = sess.cfg.Atoms.Format
	}
	artifact, err := atoms.ParseFormat(f)
	if err != nil {
		return err
	}
	path := *output
	if path == "" {
		path = sess.cfg.Atoms.Output
	}

	tab, err := atoms.Generate(names, opts)
	if err != nil {
		return err
	}
	if err := atoms.WriteFile(path, tab, artifact); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %d atoms to %s (%s, build %s)\n", tab.Len(), path, artifact, tab.BuildID())
	return nil
}

func readNames(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read names: %w", err)
	}
	defer file.Close()

	var names []string
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, sc.Err()
}

func runDump(args []string, out io.Writer) error {
	fs, common := newFlagSet("dump")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("dump: want <file>")
	}
	sess, err := common.open()
	if err != nil {
		return err
	}
	defer sess.log.Sync()

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	tab, err := atoms.Decode(context.Background(), data)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Build: %s\n", tab.BuildID())
	if sections, err := wasm.ScanSections(data); err == nil {
		fmt.Fprint(out, "Sections:")
		for _, s := range sections {
			name := wasm.SectionName(s.ID)
			if s.Name != "" {
				name += ":" + s.Name
			}
			fmt.Fprintf(out, " %s(%d)", name, s.Size)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Atoms: %d\n", tab.Len())

	for _, e := range tab.Entries() {
		fmt.Fprintf(out, "%6d  %s\n", e.ID, quoteAtom(e.Name))
	}
	return nil
}

func runTargets(args []string, out io.Writer) error {
	fs, _ := newFlagSet("targets")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, triple := range target.Triples() {
		spec, err := target.Lookup(triple)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d-bit\t%s\t%s\n", spec.Triple, spec.PointerWidth, spec.Endian, spec.Encoding)
	}
	host := target.Host()
	fmt.Fprintf(tw, "host: %s\t%d-bit\t%s\t%s\n", host.Triple, host.PointerWidth, host.Endian, host.Encoding)
	return tw.Flush()
}
