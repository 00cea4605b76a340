package main

import (
	"log"
	"moontech/internal/config"
	"moontech/server"
)

func main() {

	conf, err := config.GetConfig()
	if err != nil {
		log.Println("configuration failed", err)
		return
	}
	storeSystem, err := server.NewStoreSystem(conf)
	if err != nil {
		log.Println("store system initialization failed", err)
		return
	}
	storeSystem.Start()

}
