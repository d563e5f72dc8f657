package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"screentrack/internal/config"
	"screentrack/internal/daemon"
	"screentrack/internal/database"
	"screentrack/internal/engine"
	"screentrack/internal/reporter"
	"screentrack/internal/stats"
	"screentrack/internal/tracker"
	"screentrack/internal/web"
	"screentrack/pkg/probe"
	"screentrack/pkg/timefmt"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "start":
		startDaemon(false)
	case "serve":
		startDaemon(true)
	case "stop":
		stopDaemon()
	case "status":
		showStatus()
	case "report":
		generateReport()
	case "today":
		showToday()
	case "clear":
		clearDatabase()
	case "version":
		fmt.Printf("screentrack version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`screentrack - Desktop activity tracker

Usage:
  screentrack <command> [options]

Commands:
  start              Start the tracking daemon
  serve              Start daemon with web dashboard
  stop               Stop the tracking daemon
  status             Show daemon status, current session and last break
  report [period]    Generate activity report (period: day, week, month)
  today              Show today's totals and top applications
  clear              Clear all tracking data from database
  version            Show version information
  help               Show this help message

Examples:
  screentrack start
  screentrack serve
  screentrack status
  screentrack report week --json
  screentrack stop

Environment Variables:
  SCREENTRACK_DB_PATH             Database file path
  SCREENTRACK_POLL_INTERVAL       Poll interval in seconds (2-300)
  SCREENTRACK_IDLE_THRESHOLD      Idle threshold in seconds
  SCREENTRACK_GAP_THRESHOLD       Gap threshold in seconds
  SCREENTRACK_DEBOUNCE_THRESHOLD  Debounce threshold in seconds
  SCREENTRACK_PID_FILE            PID file path
  SCREENTRACK_WEB_HOST            Web dashboard host
  SCREENTRACK_WEB_PORT            Web dashboard port

Config file: ~/.config/screentrack/config.toml

Version: %s
`, version)
}

// newResolver wires the derived-view stack over an open repository.
func newResolver(cfg *config.Config, repo *database.Repository) *stats.Resolver {
	builder := engine.NewBuilder(engine.NewClassifier(), cfg.EffectiveGapThreshold())
	return stats.New(repo, builder, cfg.EffectiveDebounceThreshold(), cfg.Tracker.LiveWindow)
}

func openRepository(cfg *config.Config) (*database.DB, *database.Repository) {
	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	return db, database.NewRepository(db)
}

func startDaemon(withWeb bool) {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if running {
		log.Fatalf("Daemon is already running (PID: %d)", pid)
	}

	if os.Getenv("SCREENTRACK_DAEMON_CHILD") != "1" {
		daemonize(cfg, withWeb)
		return
	}

	runDaemon(cfg, dm, withWeb)
}

func runDaemon(cfg *config.Config, dm *daemon.Daemon, withWeb bool) {
	logFile, err := os.OpenFile(cfg.Daemon.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	db, repo := openRepository(cfg)
	defer db.Close()

	det, err := probe.New()
	if err != nil {
		log.Fatalf("Failed to initialize platform probe: %v", err)
	}
	defer det.Close()

	if err := dm.WritePID(); err != nil {
		log.Fatalf("Failed to write PID file: %v", err)
	}
	defer dm.RemovePID()

	trackerSvc := tracker.NewService(cfg, repo, det)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var webServer *web.Server
	if withWeb {
		webServer = web.NewServer(cfg, newResolver(cfg, repo), repo)
		go func() {
			if err := webServer.Start(); err != nil && err != http.ErrServerClosed {
				log.Printf("Web server error: %v", err)
			}
		}()
		log.Printf("Web dashboard available at: http://%s", webServer.GetAddress())
	}

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
		trackerSvc.Stop()
	}()

	log.Println("Starting screentrack daemon...")
	log.Printf("Configuration:\n%s", cfg.String())

	if err := trackerSvc.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Tracker error: %v", err)
	}

	if webServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := webServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down web server: %v", err)
		}
	}

	log.Println("Daemon stopped successfully")
}

func stopDaemon() {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}

	if !running {
		fmt.Println("Daemon is not running")
		return
	}

	fmt.Printf("Stopping daemon (PID: %d)...\n", pid)
	if err := dm.Stop(); err != nil {
		log.Fatalf("Failed to stop daemon: %v", err)
	}

	fmt.Println("Daemon stopped successfully")
}

func showStatus() {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}

	if !running {
		fmt.Println("Status: Not running")
	} else {
		fmt.Printf("Status: Running (PID: %d)\n", pid)
		fmt.Printf("Poll Interval: %v\n", cfg.Tracker.PollInterval)
	}

	db, repo := openRepository(cfg)
	defer db.Close()

	rep := reporter.New(cfg, newResolver(cfg, repo))
	text, err := rep.FormatStatusText()
	if err != nil {
		log.Fatalf("Failed to get status: %v", err)
	}
	fmt.Print(text)

	if latest, err := repo.LatestEvent(); err == nil && latest != nil {
		fmt.Printf("Last event: %s at %s\n", latest.Type, latest.Timestamp.Format("15:04:05"))
	}
}

func showToday() {
	cfg := config.New()
	db, repo := openRepository(cfg)
	defer db.Close()

	resolver := newResolver(cfg, repo)

	totals, err := resolver.DailyTotals(time.Now())
	if err != nil {
		log.Fatalf("Failed to get daily totals: %v", err)
	}
	fmt.Printf("Today (%s)\n", totals.Day)
	fmt.Printf("  Active:   %s\n", timefmt.FormatHoursMinutes(int64(totals.ActiveSeconds)))
	fmt.Printf("  Inactive: %s\n", timefmt.FormatHoursMinutes(int64(totals.InactiveSeconds)))

	apps, err := resolver.TopApps(time.Now(), cfg.Report.TopApps)
	if err != nil {
		log.Fatalf("Failed to get top apps: %v", err)
	}
	if len(apps) > 0 {
		fmt.Println("\nTop Applications:")
		for _, app := range apps {
			fmt.Printf("  %-30s %8s %6.1f%%\n", app.AppName,
				timefmt.FormatRoundedUnit(app.TotalSeconds), app.Percentage)
		}
	}
}

func generateReport() {
	periodType := "day"
	if len(os.Args) > 2 {
		periodType = os.Args[2]
	}

	jsonOutput := false
	if len(os.Args) > 3 && os.Args[3] == "--json" {
		jsonOutput = true
	}

	cfg := config.New()
	db, repo := openRepository(cfg)
	defer db.Close()

	rep := reporter.New(cfg, newResolver(cfg, repo))

	report, err := rep.GenerateReport(periodType)
	if err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}

	if jsonOutput {
		jsonStr, err := rep.FormatReportJSON(report)
		if err != nil {
			log.Fatalf("Failed to format JSON: %v", err)
		}
		fmt.Println(jsonStr)
	} else {
		fmt.Println(rep.FormatReportText(report))
	}
}

func clearDatabase() {
	cfg := config.New()

	fmt.Print("This will delete all tracking data. Are you sure? (yes/no): ")
	var response string
	fmt.Scanln(&response)

	if response != "yes" && response != "y" {
		fmt.Println("Operation cancelled")
		return
	}

	db, repo := openRepository(cfg)
	defer db.Close()

	if err := repo.Clear(); err != nil {
		log.Fatalf("Failed to clear database: %v", err)
	}

	fmt.Println("Database cleared successfully")
}

func daemonize(cfg *config.Config, withWeb bool) {
	env := os.Environ()
	env = append(env, "SCREENTRACK_DAEMON_CHILD=1")

	procAttr := &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, nil, nil}, // stdin, stdout, stderr to /dev/null
		Sys: &syscall.SysProcAttr{
			Setsid: true, // Create new session
		},
	}

	process, err := os.StartProcess(os.Args[0], os.Args, procAttr)
	if err != nil {
		log.Fatalf("Failed to start daemon process: %v", err)
	}

	fmt.Printf("Daemon started successfully (PID: %d)\n", process.Pid)
	if withWeb {
		fmt.Printf("Web dashboard: http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	}
	fmt.Printf("Logs: %s\n", cfg.Daemon.LogFile)
}
