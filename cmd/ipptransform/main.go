// Command ipptransform converts one or more submitted documents into the
// wire format a printer accepts, then delivers the result to a device
// URI. It wires together document preparation, raster/PCL/PostScript
// transform, and transport delivery: the glue is deliberately thin, the
// work lives in internal/prep, internal/xform, and internal/sink.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/printworks/ipptransform/internal/archive"
	"github.com/printworks/ipptransform/internal/config"
	"github.com/printworks/ipptransform/internal/diag"
	"github.com/printworks/ipptransform/internal/discover"
	"github.com/printworks/ipptransform/internal/external"
	"github.com/printworks/ipptransform/internal/model"
	"github.com/printworks/ipptransform/internal/options"
	"github.com/printworks/ipptransform/internal/prep"
	"github.com/printworks/ipptransform/internal/sink"
	"github.com/printworks/ipptransform/internal/xerr"
	"github.com/printworks/ipptransform/internal/xform"
)

// cliArgs holds the parsed "ipptransform [-d device-uri] [-f outfile]
// [-i type] [-m outtype] [-o name=value …] [-r resolutions]
// [-s sheet-back] [-t types] [-v] FILE..." invocation, per spec.md §6.
type cliArgs struct {
	deviceURI  string
	outFile    string
	inputType  string
	outputType string
	optionSet  []string
	verbose    bool
	files      []string
}

// dnssdResolveTimeout bounds how long a "dnssd://" device URI gets to
// resolve before ipptransform gives up and fails the job.
const dnssdResolveTimeout = 5 * time.Second

func main() {
	ch := diag.NewStderr()
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		ch.Error("%v", err)
		os.Exit(1)
	}
	if args.verbose {
		ch = diag.New(os.Stderr, diag.LevelDebug, isEmbedded())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, ch, args); err != nil {
		ch.Error("%v", err)
		os.Exit(1)
	}
}

func isEmbedded() bool {
	_, ok := os.LookupEnv("SERVER_LOGLEVEL")
	return ok
}

func parseArgs(argv []string) (*cliArgs, error) {
	args := &cliArgs{}
	for i := 0; i < len(argv); i++ {
		a := argv[i]
		needValue := func() (string, error) {
			i++
			if i >= len(argv) {
				return "", fmt.Errorf("missing value for %s", a)
			}
			return argv[i], nil
		}
		switch a {
		case "-d":
			v, err := needValue()
			if err != nil {
				return nil, err
			}
			args.deviceURI = v
		case "-f":
			v, err := needValue()
			if err != nil {
				return nil, err
			}
			args.outFile = v
		case "-i":
			v, err := needValue()
			if err != nil {
				return nil, err
			}
			args.inputType = v
		case "-m":
			v, err := needValue()
			if err != nil {
				return nil, err
			}
			args.outputType = v
		case "-o":
			v, err := needValue()
			if err != nil {
				return nil, err
			}
			args.optionSet = append(args.optionSet, v)
		case "-r":
			v, err := needValue()
			if err != nil {
				return nil, err
			}
			args.optionSet = append(args.optionSet, "printer-resolution="+v)
		case "-s":
			v, err := needValue()
			if err != nil {
				return nil, err
			}
			args.optionSet = append(args.optionSet, "sheet-back="+v)
		case "-t":
			if _, err := needValue(); err != nil {
				return nil, err
			}
		case "-v":
			args.verbose = true
		default:
			if strings.HasPrefix(a, "-") {
				return nil, fmt.Errorf("unrecognized flag %q", a)
			}
			args.files = append(args.files, a)
		}
	}
	if len(args.files) == 0 {
		return nil, fmt.Errorf("no input files given")
	}
	return args, nil
}

func run(ctx context.Context, ch *diag.Channel, args *cliArgs) error {
	cfg := config.FromEnvironment()
	if args.deviceURI != "" {
		cfg.DeviceURI = args.deviceURI
	}
	if args.outputType != "" {
		cfg.OutputType = args.outputType
	}

	outType, err := model.ParseMimeType(cfg.OutputType)
	if err != nil {
		return fmt.Errorf("%w: %v", xerr.BadInput, err)
	}

	opts, err := options.ParsePrintOptions(args.optionSet)
	if err != nil {
		return fmt.Errorf("%w: %v", xerr.BadInput, err)
	}

	docs, err := buildInputDocuments(args)
	if err != nil {
		return err
	}
	for _, d := range docs {
		defer d.Close()
	}

	merged, diags, err := prep.Prepare(ch, docs, opts)
	if err != nil {
		return fmt.Errorf("prepare documents: %w", err)
	}
	defer merged.Close()
	for _, d := range diags.Entries() {
		ch.Info("%s", d)
	}

	deviceURI := args.deviceURI
	if deviceURI == "" {
		deviceURI = cfg.DeviceURI
	}
	if args.outFile != "" {
		deviceURI = "file://" + args.outFile
	}
	if strings.HasPrefix(deviceURI, "dnssd://") {
		resolved, err := discover.Resolve(ctx, deviceURI, dnssdResolveTimeout)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", deviceURI, err)
		}
		ch.Info("resolved %s to %s", deviceURI, resolved)
		deviceURI = resolved
	}

	s, err := sink.Open(deviceURI, ch)
	if err != nil {
		return fmt.Errorf("open sink: %w", err)
	}

	var monitor *sink.StatusMonitor
	if ippSink, ok := s.(*sink.IPPSink); ok {
		ippSink.WithAuthenticator(external.NewEnvAuthenticator())
		monitor = sink.StartStatusMonitor(ctx, ippSink, ch)
	}

	xformErr := xform.Run(ch, cfg, merged.Path, outType, opts, s)
	if monitor != nil {
		monitor.Stop()
	}
	closeErr := s.Close()
	if xformErr != nil {
		return fmt.Errorf("transform: %w", xformErr)
	}
	if closeErr != nil {
		return fmt.Errorf("deliver document: %w", closeErr)
	}

	// Archiving mirrors PREP's intermediate PDF, not the device-specific
	// wire bytes XFORM produced for it — good enough for a job record,
	// and avoids needing XFORM's sink to expose its internal buffer.
	if data, err := os.ReadFile(merged.Path); err == nil {
		if err := archive.Mirror(cfg, ch, jobIDFromEnv(), "pdf", data); err != nil {
			ch.Info("archive: %v", err)
		}
	}

	return nil
}

// buildInputDocuments resolves each positional file argument into an
// InputDocument, reading its declared content type from the CONTENT_TYPE[n]
// environment convention: CONTENT_TYPE0 for the first document, CONTENT_TYPE1
// for the second, and so on, matching convertOne's IPP_DOCUMENT_PASSWORD[n]
// indexing.
func buildInputDocuments(args *cliArgs) ([]*model.InputDocument, error) {
	docs := make([]*model.InputDocument, 0, len(args.files))
	for i, path := range args.files {
		declared := args.inputType
		if v := os.Getenv("CONTENT_TYPE" + strconv.Itoa(i)); v != "" {
			declared = v
		}
		mime, err := model.ParseMimeType(declared)
		if err != nil {
			return nil, fmt.Errorf("%w: input %d: %v", xerr.BadInput, i, err)
		}
		docs = append(docs, &model.InputDocument{
			Path:             path,
			DeclaredMimeType: mime,
		})
	}
	return docs, nil
}

func jobIDFromEnv() string {
	if v := os.Getenv("IPP_JOB_ID"); v != "" {
		return v
	}
	return "0"
}
