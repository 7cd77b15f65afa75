package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"canvas-reminder/internal/canvas"
	"canvas-reminder/internal/config"
	"canvas-reminder/internal/conversation"
	"canvas-reminder/internal/desktop"
	"canvas-reminder/internal/gcal"
	"canvas-reminder/internal/llm"
	"canvas-reminder/internal/logfile"
	"canvas-reminder/internal/messenger"
	"canvas-reminder/internal/notify"
	"canvas-reminder/internal/reminder"
	"canvas-reminder/internal/scheduler"
	"canvas-reminder/internal/selfping"
	"canvas-reminder/internal/storage"
	"canvas-reminder/internal/telegram"
	"canvas-reminder/internal/webhook"
)

const usage = `Canvas Deadline Reminder App with Detailed Facebook Messages

Usage:
  canvas-reminder [--web] [--assignment NAME] <start|once|list|details|test>

Commands:
  start     run the reminder daemon until interrupted
  once      send the summary and urgent details once
  list      print every upcoming assignment
  details   send details for --assignment, or everything due within 24h
  test      send a test desktop notification and chat message

Flags:
`

type options struct {
	command    string
	assignment string
	web        bool
}

func parseArgs(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("canvas-reminder", flag.ContinueOnError)
	fs.StringVar(&o.assignment, "assignment", "", "assignment name to get details for (use with details command)")
	fs.BoolVar(&o.web, "web", false, "serve the Messenger webhook and health endpoints on PORT")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	// Flags may also follow the command.
	if fs.NArg() > 0 {
		o.command = fs.Arg(0)
		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return o, err
		}
		if fs.NArg() > 0 {
			return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
		}
	}

	switch o.command {
	case "start", "once", "list", "details", "test":
	case "":
		if !o.web {
			fs.Usage()
			return o, errors.New("a command is required")
		}
	default:
		return o, fmt.Errorf("unknown command %q", o.command)
	}
	return o, nil
}

type deps struct {
	cfg       *config.Config
	app       *reminder.App
	messenger *messenger.Client
	telegram  *telegram.Bot
	pinger    *selfping.Pinger
	states    *conversation.Store
	exporter  *gcal.Exporter
}

func build(ctx context.Context, cfg *config.Config) *deps {
	loc := cfg.Location()
	d := &deps{cfg: cfg}

	d.messenger = messenger.NewClient(cfg.FacebookPageAccessToken, cfg.FacebookRecipientID, cfg.FacebookGraphURL)
	sinks := []notify.ChatSink{d.messenger}
	if cfg.TelegramEnabled() {
		bot, err := telegram.New(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("❌ Telegram disabled: %v", err)
		} else {
			d.telegram = bot
			sinks = append(sinks, bot)
		}
	}

	var desk notify.DesktopNotifier
	if cfg.DesktopNotifications {
		desk = desktop.New(true)
	}
	svc := notify.New(loc, desk, sinks...)
	if cfg.DeliveryLogPath != "" {
		j, err := storage.NewFileJournal(cfg.DeliveryLogPath)
		if err != nil {
			log.Printf("⚠️ Delivery journal disabled: %v", err)
		} else {
			svc.SetJournal(j)
		}
	}

	source := canvas.NewClient(cfg.CanvasBaseURL, cfg.CanvasAPIToken)
	d.app = reminder.New(source, svc, loc)
	d.app.SetDetailsDelay(cfg.StartupDetailsDelay)

	client, err := llm.FromConfig(cfg)
	if err != nil {
		log.Printf("⚠️ Study tips disabled: %v", err)
	} else if client != nil {
		d.app.SetAdvisor(llm.NewAdvisor(client))
		log.Printf("💡 Study tips enabled (%s)", cfg.LLMProvider)
	}

	d.pinger = selfping.New(cfg.SelfPingURL, cfg.SelfPingIntervalMin, cfg.SelfPingIntervalMax)
	d.states = conversation.NewStore(cfg.ConversationTTL)

	if cfg.CalendarEnabled() {
		exp, err := gcal.New(ctx, cfg.GoogleCalendarCredentialsJSON, cfg.GoogleCalendarRefreshToken, cfg.GoogleCalendarID, loc)
		if err != nil {
			log.Printf("❌ Google Calendar export disabled: %v", err)
		} else {
			d.exporter = exp
		}
	}
	return d
}

func (d *deps) webServer(schedulerRunning bool) *webhook.Server {
	srv := webhook.New(webhook.Options{
		Port:             d.cfg.Port,
		VerifyToken:      d.cfg.FacebookVerifyToken,
		AppSecret:        d.cfg.FacebookAppSecret,
		SchedulerRunning: schedulerRunning,
	}, d.app, d.messenger, d.states)
	srv.SetPinger(d.pinger)
	if d.exporter != nil {
		srv.SetExporter(d.exporter)
	}
	return srv
}

func (d *deps) scheduler() *scheduler.Scheduler {
	jobs := scheduler.Jobs{
		Summary:  d.app.SendScheduled,
		Detailed: d.app.SendDetailed,
		Hourly:   d.app.SendHourly,
		Refresh:  d.app.Update,
		Sweep: func(context.Context) {
			if n := d.states.Sweep(); n > 0 {
				log.Printf("🧹 Evicted %d idle conversations", n)
			}
		},
	}
	if d.pinger.Active() {
		jobs.Ping = func(ctx context.Context) { d.pinger.Ping(ctx) }
	}
	return scheduler.New(d.app.Location(), jobs,
		time.Duration(d.cfg.SelfPingIntervalMin)*time.Minute,
		time.Duration(d.cfg.SelfPingIntervalMax)*time.Minute)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	opts, err := parseArgs(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg := config.New()
	closer, err := logfile.Setup(cfg.LogFilePath)
	if err != nil {
		log.Printf("⚠️ File logging disabled: %v", err)
	} else {
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := build(ctx, cfg)

	switch {
	case opts.command == "start":
		fmt.Println("Starting Canvas Reminder daemon...")
		fmt.Println("Press Ctrl+C to stop")
		runDaemon(ctx, d, opts.web)
	case opts.web:
		runWeb(ctx, d)
	case opts.command == "once":
		d.app.RunOnce(ctx)
	case opts.command == "list":
		d.app.List(ctx, os.Stdout)
	case opts.command == "details":
		d.app.Update(ctx)
		d.app.SendDetails(ctx, opts.assignment)
		fmt.Println("Detailed assignment information sent to Facebook Messenger!")
	case opts.command == "test":
		fmt.Println("Testing notifications...")
		d.app.Test(ctx)
		fmt.Println("Test notifications sent!")
	}
}

func serve(ctx context.Context, srv *webhook.Server, stop context.CancelFunc) {
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("❌ Web server failed: %v", err)
			stop()
		}
	}()
	go func() {
		<-ctx.Done()
		if err := srv.Stop(); err != nil {
			log.Printf("⚠️ Web server shutdown: %v", err)
		}
	}()
}

func runWeb(ctx context.Context, d *deps) {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	d.app.Update(ctx)
	serve(ctx, d.webServer(false), stop)
	<-ctx.Done()
	log.Printf("🛑 Web server stopped")
}

func runDaemon(ctx context.Context, d *deps, web bool) {
	log.Printf("🚀 Starting Canvas Reminder daemon...")
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	d.app.Update(ctx)
	sched := d.scheduler()
	if err := sched.Start(); err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}
	if web {
		serve(ctx, d.webServer(true), stop)
	}
	if d.telegram != nil {
		go d.telegram.Listen(ctx, d.app.Reply)
	}

	d.app.Startup(ctx, d.pinger.Range())
	d.app.SendIndividualDetails(ctx)

	<-ctx.Done()
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	d.app.Shutdown(shutdownCtx)
}
