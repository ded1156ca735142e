package main

import (
	"flag"
	"log"
	"strings"

	"cashbook/config"
	"cashbook/database"
	"cashbook/middleware"
	"cashbook/router"
	"cashbook/service"

	"github.com/sirupsen/logrus"
)

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "path to external config file (optional)")
	flag.StringVar(&configFile, "c", "", "path to external config file (shorthand)")
	flag.StringVar(&port, "port", "", "listen port, e.g. 8080 or :8080")
	flag.StringVar(&port, "p", "", "listen port (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&showVersion, "v", false, "print version (shorthand)")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("cashbook v1.0.0")
		return
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("port overridden from command line: %s", port)
	}

	config.PrintConfig()

	if cfg.Server.Mode == "release" {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := database.Init(cfg); err != nil {
		log.Fatalf("database init: %v", err)
	}

	middleware.InitJWT(cfg)

	sessions := service.NewSessionStore(cfg)

	r := router.SetupRouter(cfg, sessions)

	log.Printf("cashbook listening on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("server start: %v", err)
	}
}
