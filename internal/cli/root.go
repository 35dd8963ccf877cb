package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/sockhttp/internal/http"
	"github.com/wesleyorama2/sockhttp/internal/metrics"
	"github.com/wesleyorama2/sockhttp/internal/output"
	"github.com/wesleyorama2/sockhttp/pkg/jsonpath"
	"github.com/wesleyorama2/sockhttp/pkg/jsonschema"
)

var version = "0.1.0"

// errUsage is returned when no URL was given; the usage text has already
// been printed
var errUsage = errors.New("missing URL")

type requestOptions struct {
	data    []string
	format  string
	verbose bool
	noColor bool
	timeout time.Duration
	maxSize int64
	extract []string
	schema  string
	repeat  int

	collection string
	vars       []string
}

// NewRootCmd builds the sockhttp command tree
func NewRootCmd() *cobra.Command {
	opts := &requestOptions{}

	cmd := &cobra.Command{
		Use:     "sockhttp [METHOD] URL",
		Short:   "Send GET and POST requests over a raw TCP socket",
		Version: version,
		Long: `sockhttp writes HTTP/1.1 requests directly to a TCP connection and reads
the response until the server closes it.

With one argument it sends a GET to URL. With two, the first is the method:
POST sends the --data fields form-encoded, anything else sends a GET.

With --collection the arguments are request names instead, and the requests
of a YAML or JSON collection file are sent one after another, in file order
or in the order the names are given. Values extracted from a response become
variables for the requests that follow.`,
		Example: `  sockhttp http://example.com/
  sockhttp POST http://localhost:8080/login -d user=alice -d pass=secret
  sockhttp GET http://localhost:8080/api -o text -v
  sockhttp --collection requests.yaml login profile --var base=http://localhost:8080`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.collection != "" {
				return nil
			}
			return cobra.MaximumNArgs(2)(cmd, args)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.collection != "" {
				return runCollection(cmd, opts, args)
			}
			if len(args) == 0 {
				fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
				return errUsage
			}

			method, rawURL := http.MethodGet, args[0]
			if len(args) == 2 {
				method, rawURL = args[0], args[1]
			}
			return sendRequest(cmd, opts, method, rawURL)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.data, "data", "d", nil, "form field key=value sent with POST (can be used multiple times)")
	flags.StringVarP(&opts.format, "output", "o", string(output.FormatPlain), "output format (plain, text, json, yaml); text with --collection")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "show the raw request, headers and timing")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.DurationVarP(&opts.timeout, "timeout", "t", 0, "request timeout, 0 waits forever or uses the collection's timeout")
	flags.Int64Var(&opts.maxSize, "max-size", http.DefaultMaxResponseSize, "largest response to buffer in bytes, 0 for no limit")
	flags.StringArrayVar(&opts.extract, "extract", nil, "JSONPath to print from the response body (can be used multiple times)")
	flags.StringVar(&opts.schema, "schema", "", "JSON Schema file the response body must satisfy")
	flags.IntVarP(&opts.repeat, "repeat", "n", 1, "send the request N times in a row and print a latency summary")
	flags.StringVarP(&opts.collection, "collection", "c", "", "YAML or JSON collection file to run instead of a single request")
	flags.StringArrayVar(&opts.vars, "var", nil, "collection variable key=value, overrides the file's variables (can be used multiple times)")

	return cmd
}

// Execute runs the command line under ctx and reports any error on stderr
func Execute(ctx context.Context) error {
	cmd := NewRootCmd()
	cmd.SetContext(ctx)
	return execute(cmd)
}

func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil && !errors.Is(err, errUsage) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

func sendRequest(cmd *cobra.Command, opts *requestOptions, method, rawURL string) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	form, err := parsePairs("data", opts.data)
	if err != nil {
		return err
	}

	var schema *jsonschema.Schema
	if opts.schema != "" {
		data, err := os.ReadFile(opts.schema)
		if err != nil {
			return errors.Wrap(err, "error reading schema")
		}
		if schema, err = jsonschema.Compile(string(data)); err != nil {
			return err
		}
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	noColor := !colorEnabled(cmd, opts.noColor)
	formatter := output.GetFormatter(format, opts.verbose, noColor)

	client := http.NewClient(
		http.WithTimeout(opts.timeout),
		http.WithMaxResponseSize(opts.maxSize),
	)

	req := http.NewRequest(method, rawURL).WithForm(form)
	fmt.Fprint(stdout, formatter.FormatRequest(req))

	repeat := opts.repeat
	if repeat < 1 {
		repeat = 1
	}

	recorder := metrics.NewRecorder()
	var (
		resp    *http.Response
		lastErr error
	)
	for i := 0; i < repeat; i++ {
		r, err := client.Do(cmd.Context(), req)
		if err != nil {
			recorder.RecordError()
			lastErr = err
			continue
		}
		recorder.Record(r.Timing.Total)
		resp = r
	}

	if resp == nil {
		return lastErr
	}

	fmt.Fprint(stdout, formatter.FormatResponse(req, resp))

	for _, path := range opts.extract {
		value, err := jsonpath.Extract(resp.Body, path)
		if err != nil {
			return errors.Wrapf(err, "extract %s", path)
		}
		fmt.Fprintf(stdout, "%s: %s\n", path, value)
	}

	if repeat > 1 {
		fmt.Fprint(stderr, output.FormatSummary(recorder.Summary(), noColor))
	}

	if schema != nil {
		if err := schema.Validate(resp.Body); err != nil {
			return errors.Wrap(err, "response does not match schema")
		}
		if format == output.FormatText {
			fmt.Fprintf(stderr, "%s response matches schema\n", output.SuccessIcon(noColor))
		}
	}

	if failed := recorder.Summary().Errors; failed > 0 {
		return errors.Wrapf(lastErr, "%d of %d requests failed", failed, repeat)
	}
	return nil
}

// parsePairs splits key=value arguments of the named flag
func parsePairs(flag string, pairs []string) (url.Values, error) {
	values := make(url.Values)
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --%s %q, expected key=value", flag, pair)
		}
		values.Add(key, value)
	}
	return values, nil
}

// colorEnabled reports whether the command writes to a terminal that should
// get colored output
func colorEnabled(cmd *cobra.Command, noColor bool) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return output.ColorEnabled(f, noColor)
}
