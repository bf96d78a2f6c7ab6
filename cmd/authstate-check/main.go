// Command authstate-check inspects the yukyu permission tables and
// persisted session snapshots.
//
//	authstate-check -role KEITOSAN
//	authstate-check -role EMPLOYEE -path /yukyu-reports
//	authstate-check -snapshot ./auth-state.json
//
// With no flags it prints the capability matrix for every role.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	goAuthState "github.com/MrEthical07/goAuthState"
	"github.com/MrEthical07/goAuthState/internal/logging"
	"github.com/MrEthical07/goAuthState/permission"
	"github.com/MrEthical07/goAuthState/session"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code: 0 ok, 1 denied or failed, 2 usage.
// Deferred cleanup runs before main exits.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("authstate-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		role     = fs.String("role", "", "role to inspect; empty prints every role")
		path     = fs.String("path", "", "page path to check against -role")
		snapshot = fs.String("snapshot", "", "file storage path to rehydrate and print")
		verbose  = fs.Bool("v", false, "development logging")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	env := "production"
	if *verbose {
		env = "development"
	}
	logger, err := logging.New(env)
	if err != nil {
		fmt.Fprintf(stderr, "logger init: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	resolver := permission.Default()

	switch {
	case *snapshot != "":
		return runSnapshot(logger, *snapshot, stdout, stderr)
	case *path != "":
		if *role == "" {
			fmt.Fprintln(stderr, "-path requires -role")
			return 2
		}
		return runAccess(resolver, *role, *path, stdout, stderr)
	default:
		return runMatrix(resolver, *role, stdout, stderr)
	}
}

func runMatrix(resolver *permission.Resolver, only string, stdout, stderr io.Writer) int {
	roles := permission.AllRoles()
	if only != "" {
		r, err := permission.ParseRole(only)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		roles = []permission.Role{r}
	}

	caps := []permission.Capability{
		permission.CapApprove,
		permission.CapCreateRequest,
		permission.CapViewReports,
		permission.CapAdmin,
		permission.CapViewAllHistory,
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "ROLE\tCATEGORY")
	for _, c := range caps {
		fmt.Fprintf(tw, "\t%s", c)
	}
	fmt.Fprintln(tw)
	for _, r := range roles {
		fmt.Fprintf(tw, "%s\t%s", r, permission.CategoryOf(r))
		for _, c := range caps {
			fmt.Fprintf(tw, "\t%t", resolver.Has(r, c))
		}
		fmt.Fprintln(tw)
	}
	_ = tw.Flush()

	if len(roles) == 1 {
		fmt.Fprintln(stdout)
		for _, p := range resolver.Pages() {
			fmt.Fprintf(stdout, "%-28s %t\n", p.Path, resolver.IsAccessAllowed(p.Path, roles[0]))
		}
	}
	return 0
}

func runAccess(resolver *permission.Resolver, role, path string, stdout, stderr io.Writer) int {
	r, err := permission.ParseRole(role)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if resolver.IsAccessAllowed(path, r) {
		fmt.Fprintf(stdout, "%s may open %s\n", r, path)
		return 0
	}
	fmt.Fprintf(stdout, "%s may NOT open %s\n", r, path)
	return 1
}

func runSnapshot(logger *zap.Logger, file string, stdout, stderr io.Writer) int {
	cfg := goAuthState.DefaultConfig()
	cfg.Storage.Backend = goAuthState.StorageFile
	cfg.Storage.FilePath = file
	cfg.Audit.Enabled = false

	engine, err := goAuthState.New().
		WithConfig(cfg).
		WithLogger(logger).
		Build()
	if err != nil {
		fmt.Fprintf(stderr, "engine build: %v\n", err)
		return 1
	}
	defer engine.Close()

	ctx := context.Background()
	outcome := engine.Rehydrate(ctx)
	st := engine.State()
	st.Token = logging.MaskToken(st.Token)

	out := struct {
		Outcome      string                   `json:"outcome"`
		State        session.State            `json:"state"`
		Capabilities goAuthState.Capabilities `json:"capabilities"`
	}{
		Outcome:      outcome.String(),
		State:        st,
		Capabilities: engine.Capabilities(ctx),
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "encode: %v\n", err)
		return 1
	}
	return 0
}
