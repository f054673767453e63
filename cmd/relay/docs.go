package main

//go:generate swag init -g cmd/relay/main.go -o docs

// @title           Polymarket Relay API
// @version         0.1.0
// @description     Polymarket feed proxy and read-only warehouse dashboard.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
