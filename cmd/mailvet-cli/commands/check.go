package commands

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"strings"
	"time"

	"github.com/mailvet/mailvet/verifier"
	"github.com/mailvet/mailvet/verifier/mxresolver"

	"github.com/spf13/cobra"
)

type CheckSettings struct {
	Format string
	CSV    csvOptions
	Lookup lookupOptions
	Probe  probeOptions
}

type lookupOptions struct {
	Resolver net.IP
	DoH      bool
	Timeout  time.Duration
}

type probeOptions struct {
	Enabled    bool
	HeloDomain string
	Sender     string
}

type csvOptions struct {
	skipRows uint64
	column   uint64
}

var (
	checkSettings = &CheckSettings{}
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify email addresses",
	Long:  ``,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return errors.New("too many arguments, expected 0 or 1")
		}

		if len(args) > 0 && isStdinPiped() {
			return errors.New("can't read both from stdin and argument")
		}

		if len(args) == 0 && !isStdinPiped() {
			return errors.New("missing argument")
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := buildVerifier(checkSettings)
		if err != nil {
			return err
		}

		var it *ScanIterator
		if len(args) > 0 {
			it = createTextIterator(strings.NewReader(args[0]))
		} else if isStdinPiped() {
			switch checkSettings.Format {
			case "":
				fallthrough
			case "text":
				it = createTextIterator(os.Stdin)
			case "csv":
				it = createCSVIterator(os.Stdin)
			default:
				cmd.PrintErrf("bad format %q", checkSettings.Format)
				return nil
			}
		}

		if it == nil {
			cmd.PrintErr("No suitable iterator found, this is.. unexpected.")
			return nil
		}

		jsonEncoder := json.NewEncoder(cmd.OutOrStdout())
		for it.Next() {
			email, err := it.Value()
			if err != nil {
				cmd.PrintErr(err)
				continue
			}

			if email == "" {
				continue
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			r := v.Verify(ctx, email)
			cancel()

			err = jsonEncoder.Encode(r)
			if err != nil {
				cmd.PrintErr(err)
			}
		}

		return it.Close()
	},
}

func buildVerifier(settings *CheckSettings) (*verifier.EmailVerifier, error) {
	var resolver mxresolver.Resolver
	var err error

	if settings.Lookup.DoH {
		resolver = mxresolver.NewDoH(mxresolver.CloudflareDoHEndpoint, settings.Lookup.Timeout)
	} else {
		var servers []string
		if ip := settings.Lookup.Resolver; ip != nil {
			servers = []string{ip.String()}
		}

		resolver, err = mxresolver.NewDNS(servers, settings.Lookup.Timeout)
		if err != nil {
			return nil, err
		}
	}

	options := []verifier.Option{
		verifier.WithLookupTimeout(settings.Lookup.Timeout),
	}

	if settings.Probe.Enabled {
		options = append(options, verifier.WithProber(
			verifier.NewSMTPProber(settings.Probe.HeloDomain, settings.Probe.Sender, settings.Lookup.Timeout),
		))
	}

	return verifier.New(resolver, options...), nil
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkSettings.Format, "format", "text", "text or csv. Text means a single email address per line '\\n'")
	checkCmd.Flags().Uint64Var(&checkSettings.CSV.skipRows, "csv-skip-rows", 0, "Rows to skip, useful when wanting to skip the header in CSV files")
	checkCmd.Flags().Uint64Var(&checkSettings.CSV.column, "csv-column", 0, "The column to read email addresses from, 0-indexed")
	checkCmd.Flags().IPVar(&checkSettings.Lookup.Resolver, "resolver", nil, "Custom resolver to use, otherwise system default is used")
	checkCmd.Flags().BoolVar(&checkSettings.Lookup.DoH, "doh", false, "Resolve MX records over DNS-over-HTTPS instead of plain DNS")
	checkCmd.Flags().DurationVar(&checkSettings.Lookup.Timeout, "timeout", 10*time.Second, "Timeout per lookup or probe attempt")
	checkCmd.Flags().BoolVar(&checkSettings.Probe.Enabled, "probe", false, "Also probe the mailbox over SMTP, requires outbound port 25")
	checkCmd.Flags().StringVar(&checkSettings.Probe.HeloDomain, "helo-domain", "localhost", "Domain identity to present in the SMTP HELO")
	checkCmd.Flags().StringVar(&checkSettings.Probe.Sender, "sender", "verify@localhost", "Envelope sender to use in the SMTP probe")
}
