// portalauth automates the institutional identity portal's multi-step login
// from the command line.
//
// Run sequence:
//  1. Load configuration (JSON file or defaults).
//  2. Initialise logger and metrics.
//  3. Create the browser-impersonating HTTP client.
//  4. Build a login orchestrator for the selected account.
//  5. Run the requested branch: TOTP login, email login (prompting for the
//     one-time password on stdin), credential probe, or FIDO2 registration.
//  6. Print the outcome and the round-trip metrics.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/mshiomi/portalauth/client"
	"github.com/mshiomi/portalauth/config"
	"github.com/mshiomi/portalauth/flow"
	"github.com/mshiomi/portalauth/logger"
	"github.com/mshiomi/portalauth/metrics"
	"github.com/mshiomi/portalauth/webauthn"
)

func main() {
	// ── Flags ──────────────────────────────────────────────────────────────
	configFile := flag.String("config", "", "Path to JSON config file (optional; uses defaults if omitted)")
	mode := flag.String("mode", "totp", "Login branch: totp | email | probe | fido2")
	username := flag.String("username", os.Getenv("PORTAL_USERNAME"), "Account identifier (or PORTAL_USERNAME)")
	password := flag.String("password", os.Getenv("PORTAL_PASSWORD"), "Account password (or PORTAL_PASSWORD)")
	totpSecret := flag.String("totp-secret", os.Getenv("PORTAL_TOTP_SECRET"), "Base32 TOTP shared secret (or PORTAL_TOTP_SECRET)")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	// ── Logger ─────────────────────────────────────────────────────────────
	level := logger.LevelInfo
	if *verbose {
		level = logger.LevelDebug
	}
	log := logger.New(level)
	log.Info("portalauth starting up")

	// ── Configuration ──────────────────────────────────────────────────────
	var cfg *config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.LoadConfig(*configFile)
		if err != nil {
			log.Errorf("failed to load config from %q: %v", *configFile, err)
			os.Exit(1)
		}
		log.Infof("configuration loaded from %q", *configFile)
	} else {
		cfg = config.DefaultConfig()
		log.Info("using default configuration")
	}

	if *username == "" || *password == "" {
		log.Error("username and password are required (flags or PORTAL_USERNAME / PORTAL_PASSWORD)")
		os.Exit(1)
	}

	// ── Metrics ────────────────────────────────────────────────────────────
	m := metrics.NewMetrics()

	// ── HTTP client ────────────────────────────────────────────────────────
	c, err := client.New(cfg)
	if err != nil {
		log.Errorf("failed to create HTTP client: %v", err)
		os.Exit(1)
	}
	defer c.Close()

	// ── Orchestrator ───────────────────────────────────────────────────────
	account := flow.Account{
		Username:   *username,
		Password:   *password,
		TOTPSecret: *totpSecret,
	}
	orch, err := flow.New(c, cfg.BaseURL, account, log, m)
	if err != nil {
		log.Errorf("failed to create orchestrator: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// ── Branch dispatch ────────────────────────────────────────────────────
	var runErr error
	switch *mode {
	case "totp":
		runErr = runTOTP(ctx, orch)
	case "email":
		runErr = runEmail(ctx, orch)
	case "probe":
		runErr = runProbe(ctx, orch)
	case "fido2":
		runErr = runFIDO2(ctx, orch, cfg.BaseURL)
	default:
		log.Errorf("unknown mode %q (want totp, email, probe or fido2)", *mode)
		os.Exit(1)
	}

	if errors.Is(runErr, flow.ErrAlreadyLoggedIn) {
		color.Yellow("session is already authenticated; nothing to do")
		runErr = nil
	}
	if runErr != nil {
		color.Red("login failed: %v", runErr)
	}

	roundTrips, started, completed, failures := m.Snapshot()
	log.Infof("metrics – round trips: %d | attempts: %d | completed: %d | validation failures: %d | rps: %.1f",
		roundTrips, started, completed, failures, m.RoundTripsPerSecond())

	if runErr != nil {
		os.Exit(1)
	}
}

func runTOTP(ctx context.Context, orch *flow.Orchestrator) error {
	body, err := orch.LoginWithTOTP(ctx)
	if err != nil {
		return err
	}
	color.Green("login succeeded via TOTP (%d bytes of resource list)", len(body))
	return nil
}

func runEmail(ctx context.Context, orch *flow.Orchestrator) error {
	ch, err := orch.StartEmailLogin(ctx)
	if err != nil {
		return err
	}
	fmt.Print("one-time password sent by email; enter it: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read one-time password: %w", err)
	}
	body, err := orch.CompleteEmailLogin(ctx, ch, strings.TrimSpace(line))
	if err != nil {
		return err
	}
	color.Green("login succeeded via email (%d bytes of resource list)", len(body))
	return nil
}

func runProbe(ctx context.Context, orch *flow.Orchestrator) error {
	ok, err := orch.ProbeCredentials(ctx)
	if err != nil {
		return err
	}
	if ok {
		color.Green("credentials valid")
	} else {
		color.Red("credentials rejected")
	}
	return nil
}

func runFIDO2(ctx context.Context, orch *flow.Orchestrator, origin string) error {
	if _, err := orch.LoginWithTOTP(ctx); err != nil && !errors.Is(err, flow.ErrAlreadyLoggedIn) {
		return err
	}
	orch.UseAuthenticator(webauthn.NewSoftAuthenticator(origin))
	outcome, err := orch.RegisterFIDO2(ctx)
	if err != nil {
		return err
	}
	switch outcome {
	case webauthn.OutcomeCreated:
		color.Green("security key registered")
	case webauthn.OutcomeServerRejected:
		color.Red("portal rejected the credential")
	default:
		color.Yellow("no credential was produced")
	}
	return nil
}
