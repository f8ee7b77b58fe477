package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           DealerOps Priority API
// @version         0.1.0
// @description     Order risk scoring, prioritization and next-best-action engine.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
