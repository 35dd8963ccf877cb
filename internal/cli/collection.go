package cli

import (
	"fmt"
	"io"
	"net/url"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/sockhttp/internal/config"
	"github.com/wesleyorama2/sockhttp/internal/http"
	"github.com/wesleyorama2/sockhttp/internal/output"
	"github.com/wesleyorama2/sockhttp/pkg/jsonpath"
	"github.com/wesleyorama2/sockhttp/pkg/jsonschema"
)

// runCollection sends the named requests of the --collection file, or all of
// them in file order
func runCollection(cmd *cobra.Command, opts *requestOptions, names []string) error {
	formatName := opts.format
	if !cmd.Flags().Changed("output") {
		formatName = string(output.FormatText)
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	overrides, err := parsePairs("var", opts.vars)
	if err != nil {
		return err
	}

	collection, err := config.LoadCollection(opts.collection)
	if err != nil {
		return err
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if problems := config.ValidateCollection(collection); len(problems) > 0 {
		fmt.Fprintln(stderr, "Configuration validation errors:")
		for _, p := range problems {
			fmt.Fprintf(stderr, "  - %s\n", p.Error())
		}
		return errors.New("invalid configuration")
	}

	requests, err := collection.Select(names...)
	if err != nil {
		return err
	}

	timeout := opts.timeout
	if timeout == 0 {
		// validated above
		timeout, _ = collection.TimeoutDuration()
	}

	vars := config.MergeVariables(collection.Variables, firstValues(overrides))

	noColor := !colorEnabled(cmd, opts.noColor)
	formatter := output.GetFormatter(format, opts.verbose, noColor)
	client := http.NewClient(http.WithTimeout(timeout))

	failed := 0
	for _, r := range requests {
		r = r.Expand(vars)

		req := http.NewRequest(r.Method, r.URL).WithForm(formValues(r.Form))
		fmt.Fprint(stdout, formatter.FormatRequest(req))

		resp, err := client.Do(cmd.Context(), req)
		if err != nil {
			failed++
			reportResult(stdout, r.Name, []string{err.Error()}, noColor)
			continue
		}
		fmt.Fprint(stdout, formatter.FormatResponse(req, resp))

		problems := checkResponse(collection, r, resp)

		extracted, err := jsonpath.ExtractAll(resp.Body, r.Extract)
		if err != nil {
			problems = append(problems, err.Error())
		}
		vars = config.MergeVariables(vars, extracted)

		if len(problems) > 0 {
			failed++
		}
		reportResult(stdout, r.Name, problems, noColor)
	}

	fmt.Fprintf(stdout, "\n%d passed, %d failed\n", len(requests)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(requests))
	}
	return nil
}

// checkResponse applies a request's expectations and schema to its response
func checkResponse(c *config.Collection, r config.Request, resp *http.Response) []string {
	var problems []string

	if want := r.Expect.Status; want != 0 && resp.Code != want {
		problems = append(problems, fmt.Sprintf("expected status %d, got %d", want, resp.Code))
	}

	for name, want := range r.Expect.Headers {
		if got := resp.Header(name); got != want {
			problems = append(problems, fmt.Sprintf("expected header %s: %q, got %q", name, want, got))
		}
	}

	if r.Schema != "" {
		doc, err := c.LoadSchema(r.Schema)
		if err == nil {
			err = jsonschema.Validate(resp.Body, doc)
		}
		if err != nil {
			problems = append(problems, "schema: "+err.Error())
		}
	}

	return problems
}

func reportResult(w io.Writer, name string, problems []string, noColor bool) {
	if len(problems) == 0 {
		fmt.Fprintf(w, "%s %s\n", output.SuccessIcon(noColor), name)
		return
	}
	fmt.Fprintf(w, "%s %s\n", output.ErrorIcon(noColor), name)
	for _, p := range problems {
		fmt.Fprintf(w, "    %s\n", p)
	}
}

// formValues converts a collection form into url.Values
func formValues(form map[string]string) url.Values {
	values := make(url.Values, len(form))
	for key, value := range form {
		values.Set(key, value)
	}
	return values
}

func firstValues(values url.Values) map[string]string {
	m := make(map[string]string, len(values))
	for key := range values {
		m[key] = values.Get(key)
	}
	return m
}
