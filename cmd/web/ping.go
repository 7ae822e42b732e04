package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hbnb_web/internal/adapters/hbnbapi"
	"hbnb_web/internal/domain"
)

func getCmdPing(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the HBnB API answers",
		Long: `Check that the HBnB API answers.

Lists places anonymously and prints how many came back.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := hbnbapi.New(st.cfg.APIBase, st.cfg.APITimeout, 0)
			if err != nil {
				return err
			}
			places, err := api.ListPlaces(cmd.Context(), domain.Session{})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d places\n", st.cfg.APIBase, len(places))
			return err
		},
	}
}
