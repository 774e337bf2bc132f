package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/saravenpi/sibchat/internal/attachments"
	"github.com/saravenpi/sibchat/internal/chat"
	"github.com/saravenpi/sibchat/internal/config"
	"github.com/saravenpi/sibchat/internal/logger"
	"github.com/saravenpi/sibchat/internal/seed"
	"github.com/saravenpi/sibchat/internal/ui"
)

const version = "1.0.0"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "-v", "--version":
			fmt.Printf("SibCHAT v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		case "config":
			printConfig()
			return
		default:
			fmt.Printf("Unknown command: %s\n", os.Args[1])
			printHelp()
			os.Exit(1)
		}
	}

	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("sibchat needs an interactive terminal")
	}

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return err
	}

	logFile, err := logger.Init(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := logger.Module("main")

	now := time.Now()
	s, err := seed.Load(cfg.SeedFile, now)
	if err != nil {
		return err
	}

	store := attachments.NewStore(logger.Module("attachments"))
	defer func() {
		log.Debug().Int("attachments", store.Len()).Msg("releasing attachments")
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to release attachments")
		}
	}()

	screen := ui.NewScreenModel(chat.New(s), ui.Options{
		User:           cfg.User,
		Locale:         cfg.Locale,
		FreezeAfter:    cfg.FreezeAfter,
		AttachmentsDir: cfg.AttachmentsDir,
		Store:          store,
		Log:            logger.Module("ui"),
	})

	log.Info().Str("version", version).Int("chats", len(s.Chats)).Int("groups", len(s.Groups)).Msg("starting")
	p := tea.NewProgram(screen, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui stopped: %w", err)
	}
	log.Info().Msg("session ended")
	return nil
}

func printConfig() {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	data, err := cfg.Marshal()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("# %s\n%s", config.DefaultPath(), data)
}

func printHelp() {
	help := `SibCHAT - Siberian Terminal Chat

Usage:
  sibchat            Start the chat screen
  sibchat config     Print the effective configuration
  sibchat version    Show version information
  sibchat help       Show this help message

Conversation list:
  ↑/↓ or j/k        Navigate
  Enter             Open conversation
  Tab               Switch between chats and groups
  n                 New chat or group (depends on the active tab)
  e                 Edit the open conversation
  q                 Quit

Composer:
  Enter             Send message
  ctrl+s            Stickers
  ctrl+o            Attach a file
  ctrl+e            Edit the open conversation
  pgup/pgdown       Scroll messages
  ESC               Back to the list

Dialogs:
  Enter             Create or save (newline in the description field)
  ctrl+s            Create or save
  Tab               Next field
  ctrl+d            Remove the highlighted participant
  ESC               Cancel

Configuration:
  ~/.sibchat/config.yml (override with SIBCHAT_CONFIG)
  user, locale (en|ru), freeze_after, log_level, log_file,
  seed_file, attachments_dir

Notes:
  - Chats, groups and messages live in memory and reset on restart
  - Attachments are never uploaded; they exist for the session only
  - Incoming messages left unread past freeze_after are shown frozen
`
	fmt.Print(help)
}
