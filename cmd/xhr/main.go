package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/zishang520/xhr-polyfill/config"
	"github.com/zishang520/xhr-polyfill/xhr"
)

type requestInput struct {
	Method       string
	URL          string
	Headers      []string
	Data         string
	HasData      bool
	Timeout      time.Duration
	ResponseType string
	Compress     bool
	Verbose      bool
}

var rootCmd = &cobra.Command{
	Use:   "xhr <url>",
	Short: "Issue a request through the XMLHttpRequest adapter",
	Long: `Issue a single request through the XMLHttpRequest adapter and print
its state transitions, status and response text.

Examples:
  $ xhr https://api.github.com/gists/abc --response-type json
  $ xhr -X PATCH -H "Authorization: token xxx" -d '{"files":{}}' https://api.github.com/gists/abc`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRequest,
}

func init() {
	rootCmd.Flags().StringP("method", "X", "GET", "HTTP method")
	rootCmd.Flags().StringArrayP("header", "H", nil, "Request header as \"Name: value\" (repeatable)")
	rootCmd.Flags().StringP("data", "d", "", "Request body")
	rootCmd.Flags().Duration("timeout", 0, "Request timeout (0 disables it)")
	rootCmd.Flags().String("response-type", "", "Response type (text|json)")
	rootCmd.Flags().Bool("compress", false, "Advertise gzip, deflate and br")
	rootCmd.Flags().BoolP("verbose", "v", false, "Print every ready state change")
}

func runRequest(cmd *cobra.Command, args []string) error {
	in := requestInput{URL: args[0]}
	in.Method, _ = cmd.Flags().GetString("method")
	in.Headers, _ = cmd.Flags().GetStringArray("header")
	in.Data, _ = cmd.Flags().GetString("data")
	in.HasData = cmd.Flags().Changed("data")
	in.Timeout, _ = cmd.Flags().GetDuration("timeout")
	in.ResponseType, _ = cmd.Flags().GetString("response-type")
	in.Compress, _ = cmd.Flags().GetBool("compress")
	in.Verbose, _ = cmd.Flags().GetBool("verbose")

	opts := config.DefaultRequestOptions()
	opts.SetCompress(in.Compress)

	return run(cmd.Context(), cmd.OutOrStdout(), xhr.NewFactory(opts), in)
}

func parseHeader(raw string) (string, string, error) {
	name, value, ok := strings.Cut(raw, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return "", "", fmt.Errorf("invalid header %q, expected \"Name: value\"", raw)
	}
	return strings.TrimSpace(name), strings.TrimSpace(value), nil
}

func run(ctx context.Context, out io.Writer, factory xhr.Factory, in requestInput) error {
	if ctx == nil {
		ctx = context.Background()
	}
	info := pterm.Info.WithWriter(out)

	req := factory()
	if in.Verbose {
		req.SetOnReadyStateChange(func(ev *xhr.Event) {
			info.Printfln("readyState %d", ev.Target.ReadyState())
		})
	}

	req.Open(in.Method, in.URL)
	for _, raw := range in.Headers {
		name, value, err := parseHeader(raw)
		if err != nil {
			return err
		}
		req.SetRequestHeader(name, value)
	}
	req.SetTimeout(in.Timeout)
	if in.ResponseType != "" {
		req.SetResponseType(in.ResponseType)
	}

	var body any
	if in.HasData {
		body = in.Data
	}
	req.Send(body)

	if err := req.Wait(ctx); err != nil {
		req.Abort()
		return err
	}

	if err := req.Err(); err != nil {
		pterm.Error.WithWriter(out).Printfln("%s (%s)", err.Error(), req.StatusText())
		return err
	}

	info.Printfln("%d %s", req.Status(), req.StatusText())
	fmt.Fprintln(out, req.ResponseText())
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}
