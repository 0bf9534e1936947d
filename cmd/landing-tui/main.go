package main

import (
  "flag"
  "fmt"
  "os"

  tea "github.com/charmbracelet/bubbletea"
  "github.com/rs/zerolog"
  "github.com/rs/zerolog/log"

  "tvinup/internal/client"
  "tvinup/internal/config"
  "tvinup/internal/landing"
  "tvinup/internal/tui"
)

func main() {
  cfg := config.LoadClientConfig()

  apiURL := flag.String("url", cfg.APIBaseURL, "Landing API base URL")
  logPath := flag.String("log", "landing-tui.log", "Log file")
  flag.Parse()

  // The terminal belongs to the UI; logs go to a file.
  logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
  if err != nil {
    fmt.Printf("Error opening log file: %v\n", err)
    os.Exit(1)
  }
  defer logFile.Close()
  log.Logger = zerolog.New(logFile).With().Timestamp().Logger()
  if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
    zerolog.SetGlobalLevel(level)
  }

  notifier := &tui.Notifier{}
  page := landing.NewPage(
    client.New(*apiURL),
    &landing.Player{},
    landing.WithBannerDuration(cfg.UI.BannerDuration),
    landing.WithDebounce(cfg.UI.SubmitDebounce),
    landing.WithOnChange(notifier.Notify),
  )
  defer page.Close()

  program := tea.NewProgram(tui.NewModel(page))
  notifier.Attach(program)

  log.Info().Str("api", *apiURL).Msg("starting terminal client")
  if _, err := program.Run(); err != nil {
    fmt.Printf("Error running program: %v\n", err)
    os.Exit(1)
  }
}
