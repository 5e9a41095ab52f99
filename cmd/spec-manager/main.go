// Command spec-manager administers the stored API descriptions used in
// database mode.
//
// Usage:
//
//	DATABASE_URL=postgres://... spec-manager list
//	DATABASE_URL=postgres://... spec-manager add petstore petstore.yaml /petstore
//	DATABASE_URL=postgres://... spec-manager update petstore petstore.yaml
//	DATABASE_URL=postgres://... spec-manager token petstore <api-token>
//	DATABASE_URL=postgres://... spec-manager activate|deactivate|delete petstore
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ubermorgenland/anyapi-mcp/pkg/database"
	"github.com/ubermorgenland/anyapi-mcp/pkg/models"
	"github.com/ubermorgenland/anyapi-mcp/pkg/openapi2mcp"
	"github.com/ubermorgenland/anyapi-mcp/pkg/repository"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if err := database.Connect(databaseURL); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer database.Close()

	repo := repository.NewSpecRepository()
	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "list":
		err = listSpecs(repo)
	case "add":
		err = requireArgs(args, 3, "add <name> <spec-file> <endpoint-path>", func() error {
			return addSpec(repo, args[0], args[1], args[2])
		})
	case "update":
		err = requireArgs(args, 2, "update <name> <spec-file>", func() error {
			return updateSpec(repo, args[0], args[1])
		})
	case "token":
		err = requireArgs(args, 2, "token <name> <api-token>", func() error {
			return repo.SetToken(args[0], args[1])
		})
	case "activate":
		err = requireArgs(args, 1, "activate <name>", func() error {
			return repo.SetActive(args[0], true)
		})
	case "deactivate":
		err = requireArgs(args, 1, "deactivate <name>", func() error {
			return repo.SetActive(args[0], false)
		})
	case "delete":
		err = requireArgs(args, 1, "delete <name>", func() error {
			return repo.Delete(args[0])
		})
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("%s failed: %v", command, err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: spec-manager <list|add|update|token|activate|deactivate|delete> [args]")
}

func requireArgs(args []string, n int, usageLine string, fn func() error) error {
	if len(args) < n {
		return fmt.Errorf("usage: spec-manager %s", usageLine)
	}
	return fn()
}

func listSpecs(repo *repository.SpecRepository) error {
	records, err := repo.GetAllActive()
	if err != nil {
		return err
	}
	fmt.Printf("%-20s %-30s %-10s %s\n", "NAME", "ENDPOINT", "FORMAT", "UPDATED")
	for _, rec := range records {
		format, updated := "", ""
		if rec.FileFormat != nil {
			format = *rec.FileFormat
		}
		if rec.UpdatedAt != nil {
			updated = rec.UpdatedAt.Format("2006-01-02 15:04")
		}
		fmt.Printf("%-20s %-30s %-10s %s\n", rec.Name, rec.EndpointPath, format, updated)
	}
	return nil
}

func addSpec(repo *repository.SpecRepository, name, specFile, endpointPath string) error {
	content, err := os.ReadFile(specFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %v", specFile, err)
	}
	// The content must convert cleanly before it is accepted into the store.
	doc, err := openapi2mcp.LoadOpenAPISpecFromBytes(content)
	if err != nil {
		return err
	}

	rec := models.NewSpecRecord(name, string(content), endpointPath)
	title := openapi2mcp.SpecTitle(doc)
	version := openapi2mcp.SpecVersion(doc)
	size := len(content)
	rec.Title = &title
	rec.Version = &version
	rec.FileSize = &size

	if err := repo.Create(rec); err != nil {
		return err
	}
	fmt.Printf("Added spec %q (id %d): %s\n", name, rec.ID, openapi2mcp.DescribeSpec(doc))
	return nil
}

func updateSpec(repo *repository.SpecRepository, name, specFile string) error {
	content, err := os.ReadFile(specFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %v", specFile, err)
	}
	doc, err := openapi2mcp.LoadOpenAPISpecFromBytes(content)
	if err != nil {
		return err
	}
	if err := repo.UpdateContent(name, string(content)); err != nil {
		return err
	}
	fmt.Printf("Updated spec %q: %s\n", name, openapi2mcp.DescribeSpec(doc))
	return nil
}
