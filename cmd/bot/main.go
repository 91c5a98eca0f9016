package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/armyhq/restockbot/service/bot"
	"github.com/armyhq/restockbot/service/singleton"
)

type flags struct {
	configPath string
	debug      bool
}

func main() {
	var f flags
	flag.StringVar(&f.configPath, "c", "data/config.yaml", "config file path")
	flag.BoolVar(&f.debug, "d", false, "override debug mode on")
	flag.Parse()

	singleton.InitConfigFromPath(f.configPath)
	if f.debug {
		singleton.Conf.Debug = true
	}
	singleton.Init()
	singleton.InitDBFromPath(singleton.Conf.DBPath)
	singleton.LoadSingleton()

	b, err := bot.New()
	if err != nil {
		log.Fatalln("RESTOCK>>", err)
	}
	singleton.AlerterShared = singleton.NewAlerter(b)
	singleton.WatcherShared = singleton.NewWatcher()

	stop := make(chan struct{})
	singleton.StartPoller(stop)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Println("RESTOCK>> shutting down")
		close(stop)
	}()

	err = b.Run(stop)
	singleton.Cron.Stop()
	if errors.Is(err, bot.ErrConflict) {
		// two instances against one store is unsupported; report and die
		// instead of fighting over the update stream
		log.Fatalln("RESTOCK>>", err, "- stop the other instance and run exactly one copy")
	}
	if err != nil {
		log.Fatalln("RESTOCK>>", err)
	}
}
