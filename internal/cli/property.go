package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/garnizeh/rentals/pkg/models"
)

// NewPropertyCommand groups the listing commands.
func NewPropertyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "property",
		Aliases: []string{"properties", "prop"},
		Short:   "List, add, edit and delete property listings",
	}
	cmd.AddCommand(newPropertyListCommand(rootOpts))
	cmd.AddCommand(newPropertyGetCommand(rootOpts))
	cmd.AddCommand(newPropertyAddCommand(rootOpts))
	cmd.AddCommand(newPropertyUpdateCommand(rootOpts))
	cmd.AddCommand(newPropertyDeleteCommand(rootOpts))
	cmd.AddCommand(newPropertyPurgeCommand(rootOpts))
	return cmd
}

// propertyFlags binds one flag per listing field.
type propertyFlags struct {
	p         models.Property
	furniture string
}

func (f *propertyFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.p.PropertyType, "type", "", "property type, e.g. Studio")
	fs.IntVar(&f.p.Bedrooms, "bedrooms", 0, "number of bedrooms")
	fs.StringVar(&f.p.DateTime, "date", "", "date and time as YYYY-MM-DD HH:MM")
	fs.IntVar(&f.p.MonthlyRentPrice, "rent", 0, "monthly rent price")
	fs.StringVar(&f.furniture, "furniture", "", "furnished, unfurnished or semi-furnished")
	fs.StringVar(&f.p.Notes, "notes", "", "free-form notes")
	fs.StringVar(&f.p.ReporterName, "reporter", "", "name of the reporter")
	fs.StringVar(&f.p.Description, "description", "", "description")
	fs.StringVar(&f.p.Image, "image", "", "image URI")
}

// apply copies the flags the user set onto dst.
func (f *propertyFlags) apply(fs *pflag.FlagSet, dst *models.Property) {
	set := map[string]func(){
		"type":        func() { dst.PropertyType = f.p.PropertyType },
		"bedrooms":    func() { dst.Bedrooms = f.p.Bedrooms },
		"date":        func() { dst.DateTime = f.p.DateTime },
		"rent":        func() { dst.MonthlyRentPrice = f.p.MonthlyRentPrice },
		"furniture":   func() { dst.FurnitureTypes = models.FurnitureType(f.furniture) },
		"notes":       func() { dst.Notes = f.p.Notes },
		"reporter":    func() { dst.ReporterName = f.p.ReporterName },
		"description": func() { dst.Description = f.p.Description },
		"image":       func() { dst.Image = f.p.Image },
	}
	for name, fn := range set {
		if fs.Changed(name) {
			fn()
		}
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, WrapExitError(ExitFailure, "invalid id", fmt.Errorf("%q is not a positive integer", arg))
	}
	return id, nil
}

func newPropertyListCommand(rootOpts *RootOptions) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List listings, optionally filtered by type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			props, err := a.Properties.Search(cmd.Context(), search)
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Properties(props)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "keep types containing this keyword, ignoring case")
	return cmd
}

func newPropertyGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := rootOpts.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.Properties.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Property(p)
		},
	}
}

func newPropertyAddCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &propertyFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			var p models.Property
			flags.apply(cmd.Flags(), &p)
			if _, err := a.Properties.Add(cmd.Context(), &p); err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Property(&p)
		},
	}
	flags.bind(cmd.Flags())
	return cmd
}

func newPropertyUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &propertyFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := rootOpts.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.Properties.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			flags.apply(cmd.Flags(), p)
			if err := a.Properties.Update(cmd.Context(), id, p); err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Property(p)
		},
	}
	flags.bind(cmd.Flags())
	return cmd
}

func newPropertyDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := rootOpts.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Properties.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Message("deleted property %d", id)
		},
	}
}

func newPropertyPurgeCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return WrapExitError(ExitFailure, "refusing to purge", errors.New("pass --yes to confirm"))
			}
			a, err := rootOpts.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Properties.Purge(cmd.Context()); err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Message("all properties deleted")
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the purge")
	return cmd
}
