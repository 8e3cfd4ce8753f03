// Command accrete-server is the main server process that holds an
// accumulator, sequences all changes to it, and answers client requests for
// witnesses and proofs.
package main

import (
	"bytes"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/ecrombie/accrete/accumulator"
	"github.com/ecrombie/accrete/crypto/group/rsagroup"
	"github.com/ecrombie/accrete/db"
	"github.com/gorilla/mux"
)

var (
	configFile = flag.String("config", "", "Location of config file.")
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.LUTC)
	flag.Parse()

	// Load config from disk.
	if *configFile == "" {
		log.Fatalf("No config file provided, see --help.")
	}
	config, err := ReadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}

	grp, err := rsagroup.New(config.GroupConfig.modulus)
	if err != nil {
		log.Fatalf("Failed to initialize group: %v", err)
	}

	// Restore the accumulator from the database, or start a fresh one, and
	// start the holder thread that sequences every state transition.
	tx, err := db.NewLDBAccumulatorStore(config.DatabaseFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	head, err := tx.GetHead()
	if err != nil {
		log.Fatalf("Failed to read stored head: %v", err)
	}

	var acc *accumulator.Accumulator
	if head == nil {
		acc = accumulator.New(grp)
	} else {
		g, err := grp.NewElement(head.Generator)
		if err != nil {
			log.Fatalf("Stored generator is not a valid group element: %v", err)
		}
		members, err := tx.Members()
		if err != nil {
			log.Fatalf("Failed to read stored members: %v", err)
		}
		acc, err = accumulator.Restore(grp, g, members)
		if err != nil {
			log.Fatalf("Failed to restore accumulator: %v", err)
		}
		if !bytes.Equal(acc.Value().Bytes(), head.Value) {
			log.Fatalf("Stored head does not match stored member set.")
		}
	}

	h := &holder{acc: acc, tx: tx, key: config.APIConfig.signingKey, head: head}
	if head == nil {
		if _, err := h.publishHead(); err != nil {
			log.Fatalf("Failed to publish initial head: %v", err)
		}
	}
	ch := make(chan accRequest)
	go h.run(ch)

	if config.MetricsAddr != "" {
		go metrics(config.MetricsAddr)
	}

	// Setup handler for the API server.
	handler := &Handler{
		config:   config.APIConfig,
		groupCfg: config.GroupConfig,
		tx:       tx.Clone(),
		ch:       ch,
	}
	r := mux.NewRouter()
	r.HandleFunc("/", handler.Home)
	r.HandleFunc("/v1/meta", HandleAPI("/v1/meta", handler.Meta))
	r.HandleFunc("/v1/head", HandleAPI("/v1/head", handler.Head))
	r.HandleFunc("/v1/member/{member:[0-9a-f]+}", HandleAPI("/v1/member", handler.AddMember)).Methods("POST")
	r.HandleFunc("/v1/member/{member:[0-9a-f]+}", HandleAPI("/v1/member", handler.RemoveMember)).Methods("DELETE")
	r.HandleFunc("/v1/member/{member:[0-9a-f]+}", HandleAPI("/v1/member", handler.Witness)).Methods("GET")
	r.HandleFunc("/v1/member/{member:[0-9a-f]+}/absence", HandleAPI("/v1/member/absence", handler.Absence)).Methods("GET")
	r.HandleFunc("/v1/aggregate", HandleAPI("/v1/aggregate", handler.Aggregate)).Methods("GET")

	// Setup the API server.
	srv := &http.Server{
		Addr:      config.ServerAddr,
		Handler:   r,
		TLSConfig: config.tlsConfig,

		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	log.Println("Starting API server.")
	if config.TLSConfig == nil {
		log.Fatal(srv.ListenAndServe())
	} else {
		log.Fatal(srv.ListenAndServeTLS("", ""))
	}
}
