package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/kita-dienstplan/internal/application"
)

func newStaffCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Team verwalten",
	}
	cmd.AddCommand(newStaffAddCmd(s), newStaffListCmd(s))
	return cmd
}

func newStaffAddCmd(s *session) *cobra.Command {
	var input application.StaffInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Mitarbeiter/in anlegen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := s.open(cmd, oneShot)
			if err != nil {
				return err
			}
			defer release()

			staff, err := a.Staff.CreateStaff(commandContext(cmd), input)
			if err != nil {
				return err
			}
			printf(cmd, "%s angelegt (ID %d)\n", staff.DisplayName(), staff.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.FirstName, "first", "", "Vorname")
	cmd.Flags().StringVar(&input.LastName, "last", "", "Nachname")
	cmd.Flags().StringVar(&input.Role, "role", "", "Funktion, z.B. Erzieher/in")
	cmd.Flags().BoolVar(&input.Trainee, "trainee", false, "Auszubildende/r")
	return cmd
}

func newStaffListCmd(s *session) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Team auflisten",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := s.open(cmd, oneShot)
			if err != nil {
				return err
			}
			defer release()

			staff, err := a.Staff.ListStaff(commandContext(cmd), !all)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(staff))
			for _, m := range staff {
				rows = append(rows, []string{
					strconv.FormatInt(m.ID, 10),
					m.DisplayName(),
					m.Role,
					yesNo(m.Trainee),
					yesNo(m.Active),
				})
			}
			newPrinter(cmd.OutOrStdout()).table([]string{"ID", "Name", "Funktion", "Azubi", "Aktiv"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "auch inaktive Mitarbeiter/innen")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "ja"
	}
	return "nein"
}
