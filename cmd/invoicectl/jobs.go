package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/einvoice/internal/repository"
)

func (c *cli) openJobs(cmd *cobra.Command) (*repository.DB, repository.ExtractionJobRepository, error) {
	if c.cfg.Database.DSN == "" {
		return nil, nil, fmt.Errorf("DB_URL is not set")
	}
	db, err := repository.Open(cmd.Context(), repository.Config{
		DSN:         c.cfg.Database.DSN,
		MaxConns:    c.cfg.Database.MaxConns,
		DialTimeout: c.cfg.Database.DialTimeout,
	}, c.logger)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(cmd.Context()); err != nil {
		db.Close(c.logger)
		return nil, nil, err
	}
	return db, repository.NewExtractionJobRepository(db, c.logger), nil
}

func newJobsCmd(c *cli) *cobra.Command {
	var limit int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "jobs [JOB_ID]",
		Short: "List recorded extraction runs, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, jobs, err := c.openJobs(cmd)
			if err != nil {
				return err
			}
			defer db.Close(c.logger)

			if len(args) == 1 {
				id, err := parseJobID(args[0])
				if err != nil {
					return err
				}
				job, err := jobs.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				return c.printJSON(job)
			}

			list, err := jobs.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return c.printJSON(list)
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTARTED\tSTATUS\tATTEMPTS\tUSE CASE\tFAILURE\tSOURCE")
			for _, j := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
					j.ID, j.StartedAt.Local().Format(time.DateTime), j.Status, j.Attempts, j.UseCase, j.FailureKind, j.SourceName)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newDBCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dbcheck",
		Short: "Connect to DB_URL, apply the schema and ping",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, _, err := c.openJobs(cmd)
			if err != nil {
				return err
			}
			defer db.Close(c.logger)
			if err := db.HealthCheck(cmd.Context(), 5*time.Second, c.logger); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			fmt.Fprintf(c.out, "database OK (%s)\n", db.Dialect)
			return nil
		},
	}
}

func parseJobID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("job id must be a UUID: %w", err)
	}
	return id, nil
}
