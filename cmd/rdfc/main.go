// Command rdfc canonicalizes N-Quads datasets (RDFC-1.0).
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geoknoesis/rdfc-go/rdfc"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		hashName  string
		callLimit int
		issued    bool
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "rdfc [file]",
		Short: "Canonicalize an RDF dataset (RDFC-1.0)",
		Long: `rdfc reads an N-Quads dataset from a file or stdin, assigns canonical
blank node labels per RDFC-1.0 and prints the canonical N-Quads serialization.
With --issued it prints the issued-identifiers map instead.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}
			dataset, err := rdfc.ParseNQuads(input)
			if err != nil {
				return err
			}

			opts := []rdfc.Option{
				rdfc.WithHashAlgorithm(rdfc.HashAlgorithm(hashName)),
				rdfc.WithHNDQCallLimit(callLimit),
			}
			if verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer logger.Sync()
				opts = append(opts, rdfc.WithLogger(logger))
			}

			if issued {
				identifiers, err := rdfc.Issue(dataset, opts...)
				if err != nil {
					return err
				}
				labels := identifiers.Map()
				for _, id := range identifiers.Order() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, labels[id])
				}
				return nil
			}

			canonical, err := rdfc.Canonicalize(dataset, opts...)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), canonical)
			return nil
		},
	}

	cmd.Flags().StringVar(&hashName, "hash", string(rdfc.SHA256), "hash algorithm (sha256 or sha384)")
	cmd.Flags().IntVar(&callLimit, "hndq-call-limit", rdfc.DefaultHNDQCallLimit, "cap on hash n-degree quads permutation iterations (0 = unlimited)")
	cmd.Flags().BoolVar(&issued, "issued", false, "print the issued-identifiers map instead of the dataset")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log canonicalization steps")
	return cmd
}

func readInput(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}
