package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/blogicum/blogicum/internal/app"
	"github.com/blogicum/blogicum/internal/modules/auth/user"
	"github.com/blogicum/blogicum/internal/modules/content/category"
	"github.com/blogicum/blogicum/internal/modules/content/location"
)

func newCategoryCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}

	var dto category.CreateCategoryDTO
	var hidden bool
	create := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a category; the slug is derived from the title unless --slug is set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.openDB()
			if err != nil {
				return err
			}
			dto.Title = args[0]
			dto.IsPublished = !hidden
			cat, err := category.NewService(db).Create(dto)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created category %q (%s)\n", cat.Title, cat.Slug)
			return nil
		},
	}
	create.Flags().StringVar(&dto.Slug, "slug", "", "URL slug (letters, digits, hyphen, underscore)")
	create.Flags().StringVar(&dto.Description, "description", "", "Category description")
	create.Flags().BoolVar(&hidden, "hidden", false, "Create the category unpublished")

	list := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := opts.openDB()
			if err != nil {
				return err
			}
			cats, err := category.NewService(db).List()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tTITLE\tPUBLISHED")
			for _, cat := range cats {
				fmt.Fprintf(tw, "%s\t%s\t%t\n", cat.Slug, cat.Title, cat.IsPublished)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(create, list,
		setPublishedCommand(opts, "hide", "Unpublish a category together with its posts", false),
		setPublishedCommand(opts, "show", "Publish a category", true))
	return cmd
}

func setPublishedCommand(opts *rootOptions, use, short string, published bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <slug>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.openDB()
			if err != nil {
				return err
			}
			cat, err := category.NewService(db).SetPublished(args[0], published)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "category %s published=%t\n", cat.Slug, cat.IsPublished)
			opts.purgePages(cmd)
			return nil
		},
	}
}

func newLocationCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Manage locations",
	}

	var hidden bool
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.openDB()
			if err != nil {
				return err
			}
			loc, err := location.NewService(db).Create(args[0], !hidden)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created location %q (%s)\n", loc.Name, loc.ID)
			return nil
		},
	}
	create.Flags().BoolVar(&hidden, "hidden", false, "Create the location unpublished")

	list := &cobra.Command{
		Use:   "list",
		Short: "List all locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := opts.openDB()
			if err != nil {
				return err
			}
			locs, err := location.NewService(db).List()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPUBLISHED")
			for _, loc := range locs {
				fmt.Fprintf(tw, "%s\t%s\t%t\n", loc.ID, loc.Name, loc.IsPublished)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(create, list)
	return cmd
}

func newUserCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var in user.RegisterInput
	create := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(in.Password) < 8 {
				return fmt.Errorf("password must be at least 8 characters")
			}
			db, err := opts.openDB()
			if err != nil {
				return err
			}
			in.Username = args[0]
			u, err := user.NewService(db).Register(in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.Username, u.ID)
			return nil
		},
	}
	create.Flags().StringVar(&in.Email, "email", "", "Email address")
	create.Flags().StringVar(&in.Password, "password", "", "Password (at least 8 characters)")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

func newCronCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cron",
		Short: "Inspect and trigger maintenance jobs",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List maintenance jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := opts.openDB()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tEVERY\tDESCRIPTION")
			for _, job := range app.NewScheduler(db, nil).List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", job.Name, job.Interval, job.Description)
			}
			return tw.Flush()
		},
	}

	run := &cobra.Command{
		Use:   "run <name>",
		Short: "Run a maintenance job now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.openDB()
			if err != nil {
				return err
			}
			sched := app.NewScheduler(db, nil)
			if err := sched.Run(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("job %s: %w", args[0], err)
			}
			for _, job := range sched.List() {
				if job.Name == args[0] {
					fmt.Fprintf(cmd.OutOrStdout(), "job %s: %s\n", job.Name, job.Outcome)
				}
			}
			return nil
		},
	}

	cmd.AddCommand(list, run)
	return cmd
}
