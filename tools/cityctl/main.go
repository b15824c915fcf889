// cityctl is the operator CLI against the city backend: login, entity
// listings and deletes, telemetry forwarding, ticket routing, outage
// actions, bin image analysis, search, and report exports, all through
// the same sync layer the daemon uses.
package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"smartcity-ops/internal/client"
	"smartcity-ops/internal/config"
	"smartcity-ops/internal/domain"
	"smartcity-ops/internal/monitor"
	"smartcity-ops/internal/report"
	"smartcity-ops/internal/session"
	"smartcity-ops/internal/store"
	"smartcity-ops/internal/transport"
	"smartcity-ops/internal/vision"
)

type app struct {
	cfg    config.Config
	sess   *session.Store
	api    *client.API
	auth   *client.AuthClient
	store  *store.Store
	logger *log.Logger
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := log.New(os.Stderr, "", 0)
	sess := session.Open(cfg.SessionFile)
	tr, err := transport.NewClient(cfg.Backend.BaseURL, sess)
	if err != nil {
		return nil, err
	}
	api := client.NewAPI(tr)
	return &app{
		cfg:    cfg,
		sess:   sess,
		api:    api,
		auth:   client.NewAuthClient(api, sess),
		store:  store.New(api, sess, logger),
		logger: logger,
	}, nil
}

func main() {
	var a *app
	root := &cobra.Command{
		Use:           "cityctl",
		Short:         "Operate the city dashboard backend from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp()
			return err
		},
	}

	root.AddCommand(
		loginCmd(&a),
		logoutCmd(&a),
		validateCmd(&a),
		listCmd(&a),
		deleteCmd(&a),
		telemetryCmd(&a),
		routeCmd(&a),
		outageCmd(&a),
		analyzeCmd(&a),
		statsCmd(&a),
		searchCmd(&a),
		exportCmd(&a),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cityctl:", err)
		os.Exit(1)
	}
}

func loginCmd(a **app) *cobra.Command {
	var login, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain and store a backend token",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := (*a).auth.Login(cmd.Context(), client.Credentials{Username: login, Password: password})
			if err != nil {
				return err
			}
			fmt.Printf("logged in, organization %s\n", result.OrganizationID)
			return nil
		},
	}
	cmd.Flags().StringVar(&login, "login", "", "backend login")
	cmd.Flags().StringVar(&password, "password", "", "backend password")
	_ = cmd.MarkFlagRequired("login")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the stored token and organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (*a).sess.Token() == "" {
				fmt.Println("no stored session")
				return nil
			}
			(*a).auth.Logout()
			fmt.Println("session cleared")
			return nil
		},
	}
}

func validateCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check whether the stored token is still accepted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := (*a).auth.Validate(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("token invalid or missing")
			}
			fmt.Println("token valid")
			return nil
		},
	}
}

func listCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <kind>",
		Short: "List records of one entity kind as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := listKind(cmd.Context(), *a, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		},
	}
}

func listKind(ctx context.Context, a *app, kind string) (any, error) {
	switch strings.ToLower(kind) {
	case "waste-bins", "bins":
		return a.api.WasteBins.List(ctx)
	case "trucks":
		return a.api.Trucks.List(ctx)
	case "organizations", "orgs":
		return a.api.Organizations.List(ctx)
	case "air-sensors":
		return a.api.AirSensors.List(ctx)
	case "sos-columns":
		return a.api.SOSColumns.List(ctx)
	case "facilities":
		return a.api.Facilities.List(ctx)
	case "boilers":
		return a.api.Boilers.List(ctx)
	case "rooms":
		return a.api.Rooms.List(ctx)
	case "iot-devices", "devices":
		return a.api.IoTDevices.List(ctx)
	case "light-poles":
		return a.api.LightPoles.List(ctx)
	case "utility-nodes", "nodes":
		return a.api.UtilityNodes.List(ctx)
	case "construction-sites":
		return a.api.ConstructionSites.List(ctx)
	case "buses":
		return a.api.Buses.List(ctx)
	case "call-requests", "tickets":
		return a.api.CallRequests.List(ctx)
	case "eco-violations":
		return a.api.EcoViolations.List(ctx)
	case "moisture-sensors":
		return a.api.MoistureSensors.List(ctx)
	case "responsible-orgs":
		return a.api.ResponsibleOrgs.List(ctx)
	case "regions":
		return a.api.Regions.List(ctx)
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

func deleteCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete one record by id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deleteKind(cmd.Context(), *a, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("deleted %s %s\n", args[0], args[1])
			return nil
		},
	}
}

func deleteKind(ctx context.Context, a *app, kind, id string) error {
	st := a.store
	switch strings.ToLower(kind) {
	case "waste-bins", "bins":
		st.WasteBins.Delete(ctx, id)
	case "trucks":
		st.Trucks.Delete(ctx, id)
	case "organizations", "orgs":
		st.Organizations.Delete(ctx, id)
	case "air-sensors":
		st.AirSensors.Delete(ctx, id)
	case "sos-columns":
		st.SOSColumns.Delete(ctx, id)
	case "facilities":
		st.Facilities.Delete(ctx, id)
	case "boilers":
		st.Boilers.Delete(ctx, id)
	case "rooms":
		st.Rooms.Delete(ctx, id)
	case "iot-devices", "devices":
		st.IoTDevices.Delete(ctx, id)
	case "light-poles":
		st.LightPoles.Delete(ctx, id)
	case "utility-nodes", "nodes":
		st.UtilityNodes.Delete(ctx, id)
	case "construction-sites":
		st.ConstructionSites.Delete(ctx, id)
	case "buses":
		st.Buses.Delete(ctx, id)
	case "call-requests", "tickets":
		st.CallRequests.Delete(ctx, id)
	case "eco-violations":
		st.EcoViolations.Delete(ctx, id)
	case "moisture-sensors":
		st.MoistureSensors.Delete(ctx, id)
	default:
		return fmt.Errorf("unknown kind %q", kind)
	}
	return nil
}

func telemetryCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "telemetry <message>",
		Short: "Parse a device message and forward the reading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reading, ok := monitor.ParseTelemetry(args[0])
			if !ok {
				return fmt.Errorf("message carries no reading")
			}
			reading.Timestamp = time.Now().Unix()
			if _, err := (*a).api.SendSensorData(cmd.Context(), reading); err != nil {
				return err
			}
			fmt.Printf("forwarded reading for %s\n", reading.DeviceID)
			return nil
		},
	}
}

func routeCmd(a **app) *cobra.Command {
	var orgID, orgName string
	cmd := &cobra.Command{
		Use:   "route-ticket <ticket-id>",
		Short: "Assign a call center ticket to an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ticket, err := (*a).api.CallRequests.Get(ctx, args[0])
			if err != nil {
				return err
			}
			routed, err := domain.RouteTicket(ticket, orgID, orgName, time.Now())
			if err != nil {
				return err
			}
			saved, err := (*a).store.CallRequests.Save(ctx, routed)
			if err != nil {
				return err
			}
			fmt.Printf("ticket %s assigned to %s, deadline %s\n", saved.ID, saved.AssignedOrg, saved.Deadline)
			return nil
		},
	}
	cmd.Flags().StringVar(&orgID, "org", "", "organization id")
	cmd.Flags().StringVar(&orgName, "org-name", "", "organization display name")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}

func outageCmd(a **app) *cobra.Command {
	var resolve bool
	cmd := &cobra.Command{
		Use:   "outage <node-id>",
		Short: "Flag or resolve an outage on a utility node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			node, err := (*a).api.UtilityNodes.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if resolve {
				node = domain.ResolveOutage(node)
			} else {
				node = domain.FlagOutage(node)
			}
			saved, err := (*a).store.UtilityNodes.Save(ctx, node)
			if err != nil {
				return err
			}
			fmt.Printf("node %s now %s with %d open tickets\n", saved.ID, saved.Status, saved.ActiveTickets)
			return nil
		},
	}
	cmd.Flags().BoolVar(&resolve, "resolve", false, "resolve instead of flag")
	return cmd
}

func analyzeCmd(a **app) *cobra.Command {
	var binID string
	cmd := &cobra.Command{
		Use:   "analyze <image-file>",
		Short: "Classify a bin camera frame, optionally updating the bin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			cfg := (*a).cfg
			classifier, err := vision.NewHTTPClassifier(cfg.Vision.Endpoint, cfg.Vision.APIKey, (*a).logger)
			if err != nil {
				return err
			}
			verdict, err := classifier.AnalyzeBinImage(ctx, base64.StdEncoding.EncodeToString(raw))
			if err != nil {
				return err
			}
			fmt.Printf("full=%t fill=%.0f%% confidence=%.0f%% notes=%s\n",
				verdict.IsFull, verdict.FillLevel, verdict.Confidence, verdict.Notes)
			if binID == "" {
				return nil
			}
			bin, err := (*a).api.WasteBins.Get(ctx, binID)
			if err != nil {
				return err
			}
			updated := (*a).store.PatchWasteBin(ctx, bin, vision.BinPatch(verdict, time.Now()))
			fmt.Printf("bin %s fill level now %.0f%%\n", updated.ID, updated.FillLevel)
			return nil
		},
	}
	cmd.Flags().StringVar(&binID, "bin", "", "waste bin id to apply the verdict to")
	return cmd
}

func statsCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard aggregate stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := (*a).api.DashboardStats(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		},
	}
}

func searchCmd(a **app) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Free-text search across backend entities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := (*a).api.Search(cmd.Context(), args[0], kind)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&kind, "type", "", "restrict to one entity type")
	return cmd
}

func exportCmd(a **app) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Poll the backend and write the operations report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st := (*a).store
			snap := report.Snapshot{
				WasteBins:    st.WasteBins.GetAll(ctx),
				UtilityNodes: st.UtilityNodes.GetAll(ctx),
				AirSensors:   st.AirSensors.GetAll(ctx),
				Facilities:   st.Facilities.GetAll(ctx),
				CallRequests: st.CallRequests.GetAll(ctx),
			}
			now := time.Now()
			entries := report.Entries(snap, now)

			var data []byte
			var err error
			switch format {
			case "pdf":
				data, err = report.BuildPDF(entries, now)
			case "xlsx":
				data, err = report.BuildXLSX(entries, now)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join((*a).cfg.ReportDir,
					fmt.Sprintf("city-operations-%s.%s", now.UTC().Format("20060102-150405"), format))
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d rows)\n", out, len(entries))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "pdf", "pdf or xlsx")
	cmd.Flags().StringVar(&out, "out", "", "output path")
	return cmd
}
