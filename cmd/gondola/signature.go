package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gondola/backend/internal/usecase"
)

func newSignatureCmd(a *app) *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "signature <title>",
		Short: "Print the signature a title reduces to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, memoryCache := a.newService()
			if memoryCache != nil {
				defer memoryCache.Close()
			}

			sig := service.Signature(args[0])
			out := cmd.OutOrStdout()
			if !explain {
				fmt.Fprintln(out, sig.String())
				return nil
			}

			fmt.Fprintf(out, "normalized:   %s\n", usecase.Normalize(args[0]))
			fmt.Fprintf(out, "base product: %s\n", sig.BaseProduct)
			fmt.Fprintf(out, "brand:        %s\n", sig.Brand)
			fmt.Fprintf(out, "type:         %s\n", sig.Type)
			fmt.Fprintf(out, "size:         %s\n", sig.Size)
			fmt.Fprintf(out, "signature:    %s\n", sig.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "Show the normalized title and every slot")
	return cmd
}
