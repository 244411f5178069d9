package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/curiocollect/curio/internal/cli"
	"github.com/curiocollect/curio/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage the category taxonomy",
		Long:  `List and edit categories and their subcategories. Display order follows the stored position.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(addSubcategoryCmd())
	cmd.AddCommand(removeSubcategoryCmd())
	cmd.AddCommand(hideCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories and subcategories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories yet. Use 'curio categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Visible"))

			for i := range categories {
				cat := &categories[i]
				if !cat.Visible && !all {
					continue
				}
				fmt.Fprintf(w, "%s\t%s %s\t%s\n", cat.ID, cat.Icon, cat.Name, yesNo(cat.Visible))
				for _, sub := range cat.Subcategories {
					if !sub.Visible && !all {
						continue
					}
					fmt.Fprintf(w, "  %s\t  %s\t%s\n", sub.ID, sub.Name, yesNo(sub.Visible))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include hidden entries")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	var icon string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			category := &model.Category{
				ID:      slugify(args[0]),
				Name:    args[0],
				Icon:    icon,
				Visible: true,
			}
			if err := store.CreateCategory(ctx, category); err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added category %q (%s)", category.Name, category.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "", "display icon")
	return cmd
}

func addSubcategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-sub <category-id> <name>",
		Short: "Add a subcategory to a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			sub := &model.Subcategory{
				ID:      slugify(args[1]),
				Name:    args[1],
				Visible: true,
			}
			if err := store.CreateSubcategory(ctx, args[0], sub); err != nil {
				return fmt.Errorf("failed to create subcategory: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s/%s", args[0], sub.ID)))
			return nil
		},
	}
}

func removeSubcategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-sub <category-id> <subcategory-id>",
		Short: "Remove a subcategory",
		Long:  `Remove a subcategory. Refused while any item still references it; reassign those items first.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteSubcategory(ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("failed to remove subcategory: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Removed %s/%s", args[0], args[1])))
			return nil
		},
	}
}

func hideCategoryCmd() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "hide <category-id>",
		Short: "Hide a category from filter lists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			for i := range categories {
				if categories[i].ID != args[0] {
					continue
				}
				categories[i].Visible = show
				if err := store.UpdateCategory(ctx, &categories[i]); err != nil {
					return fmt.Errorf("failed to update category: %w", err)
				}
				verb := "Hid"
				if show {
					verb = "Unhid"
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s %s", verb, args[0])))
				return nil
			}
			return fmt.Errorf("category %q not found", args[0])
		},
	}

	cmd.Flags().BoolVar(&show, "undo", false, "make the category visible again")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return cli.SubtleStyle.Render("no")
}

// slugify derives a stable id from a display name.
func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	return slug
}
