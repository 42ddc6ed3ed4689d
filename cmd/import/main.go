// import carga exportaciones CSV (usuarios, solicitudes, comentarios) con sus ids originales
// y al final realinea las secuencias de ids de todas las tablas.
//
// Uso:
//
//	go run ./cmd/import --users users.csv --requests requests.csv --comments comments.csv \
//	    --encoding cp1251 --separator ';'
//
// La conexión a PostgreSQL se toma de la misma configuración que la API (DATABASE_URL, DB_HOST, ...).
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jhoicas/climate-service/internal/application/auth"
	"github.com/jhoicas/climate-service/internal/infrastructure/csvimport"
	"github.com/jhoicas/climate-service/internal/infrastructure/postgres"
	"github.com/jhoicas/climate-service/pkg/config"
	"github.com/jhoicas/climate-service/pkg/logger"
	"github.com/spf13/pflag"
)

func main() {
	var (
		usersPath    = pflag.String("users", "", "CSV de usuarios")
		requestsPath = pflag.String("requests", "", "CSV de solicitudes")
		commentsPath = pflag.String("comments", "", "CSV de comentarios")
		encoding     = pflag.String("encoding", string(csvimport.UTF8), "codificación de los archivos: utf-8 o cp1251")
		separator    = pflag.String("separator", ",", "separador de columnas")
		repairOnly   = pflag.Bool("repair-only", false, "solo realinear las secuencias, sin cargar archivos")
	)
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "import"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if cfg.DB.Migrate {
		if err := postgres.Migrate(pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	txRunner := postgres.NewTxRunner(pool, log)

	if *repairOnly {
		if err := txRunner.RepairAll(ctx); err != nil {
			log.Fatal().Err(err).Msg("reparación de secuencias")
		}
		log.Info().Msg("secuencias realineadas")
		return
	}

	sep := []rune(*separator)
	if len(sep) != 1 {
		log.Fatal().Str("separator", *separator).Msg("el separador debe ser un solo carácter")
	}
	opt := csvimport.Options{Encoding: csvimport.Encoding(*encoding), Separator: sep[0]}

	var ds postgres.Dataset
	if err := readFile(*usersPath, func(r io.Reader) (err error) {
		ds.Users, err = csvimport.ReadUsers(r, opt, auth.HashPassword)
		return err
	}); err != nil {
		log.Fatal().Err(err).Str("file", *usersPath).Msg("leer usuarios")
	}
	if err := readFile(*requestsPath, func(r io.Reader) (err error) {
		ds.Requests, err = csvimport.ReadRequests(r, opt)
		return err
	}); err != nil {
		log.Fatal().Err(err).Str("file", *requestsPath).Msg("leer solicitudes")
	}
	if err := readFile(*commentsPath, func(r io.Reader) (err error) {
		ds.Comments, err = csvimport.ReadComments(r, opt)
		return err
	}); err != nil {
		log.Fatal().Err(err).Str("file", *commentsPath).Msg("leer comentarios")
	}

	res, err := postgres.NewBulkLoader(txRunner).Load(ctx, ds)
	if err != nil {
		log.Fatal().Err(err).Msg("carga masiva")
	}
	log.Info().
		Int64("users", res.Users).
		Int64("requests", res.Requests).
		Int64("comments", res.Comments).
		Msg("carga completada, secuencias realineadas")
}

// readFile ruta vacía = tabla omitida.
func readFile(path string, read func(io.Reader) error) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return read(f)
}
