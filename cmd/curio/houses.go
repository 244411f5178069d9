package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/curiocollect/curio/internal/cli"
	"github.com/curiocollect/curio/internal/model"
)

func housesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "houses",
		Short: "Manage houses and rooms",
		Long:  `List and edit the location taxonomy. Room ids are only unique within their house.`,
	}

	cmd.AddCommand(listHousesCmd())
	cmd.AddCommand(addHouseCmd())
	cmd.AddCommand(addRoomCmd())
	cmd.AddCommand(removeRoomCmd())
	cmd.AddCommand(houseHistoryCmd())

	return cmd
}

func listHousesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List houses and their rooms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			houses, err := store.GetHouses(ctx)
			if err != nil {
				return fmt.Errorf("failed to get houses: %w", err)
			}
			if len(houses) == 0 {
				fmt.Println(cli.InfoStyle.Render("No houses yet. Use 'curio houses add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Code"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("City"))

			for i := range houses {
				house := &houses[i]
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", house.ID, house.Code, house.Name, house.City)
				for _, room := range house.Rooms {
					name := room.Name
					if room.Deleted {
						name = cli.SubtleStyle.Render(name + " (deleted)")
					}
					fmt.Fprintf(w, "  %s\t%s\t%s\tfloor %d\n", room.ID, room.Code, name, room.Floor)
				}
			}
			return nil
		},
	}
}

func addHouseCmd() *cobra.Command {
	var house model.House

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new house",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			house.Name = args[0]
			house.ID = slugify(args[0])
			house.Visible = true

			if err := store.CreateHouse(ctx, &house); err != nil {
				return fmt.Errorf("failed to create house: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added house %q (%s)", house.Name, house.ID)))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&house.Code, "code", "", "short code, uppercased on save")
	flags.StringVar(&house.City, "city", "", "city")
	flags.StringVar(&house.Country, "country", "", "country")
	return cmd
}

func addRoomCmd() *cobra.Command {
	var floor int

	cmd := &cobra.Command{
		Use:   "add-room <house-id> <name>",
		Short: "Add a room to a house",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			room := &model.Room{
				ID:      slugify(args[1]),
				Name:    args[1],
				Floor:   floor,
				Visible: true,
			}
			if err := store.CreateRoom(ctx, args[0], room); err != nil {
				return fmt.Errorf("failed to create room: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s/%s (%s)", args[0], room.ID, room.Code)))
			return nil
		},
	}

	cmd.Flags().IntVar(&floor, "floor", 0, "floor number")
	return cmd
}

func removeRoomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-room <house-id> <room-id>",
		Short: "Remove a room",
		Long:  `Soft-delete a room. Refused while any item is still located in it; move those items first.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteRoom(ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("failed to remove room: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Removed %s/%s", args[0], args[1])))
			return nil
		},
	}
}

func houseHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <house-id>",
		Short: "Show the edit history of a house",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			history, err := store.GetHouseHistory(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get history: %w", err)
			}
			if len(history) == 0 {
				fmt.Println(cli.InfoStyle.Render("No prior versions."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Version"),
				cli.HeaderStyle.Render("Updated"),
				cli.HeaderStyle.Render("Rooms"))
			for i := range history {
				snap := &history[i]
				fmt.Fprintf(w, "%d\t%s\t%d\n",
					snap.Version, snap.UpdatedAt.Format("2006-01-02 15:04"), len(snap.Rooms))
			}
			return nil
		},
	}
}
