package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/theme"
)

// ReposCmd lists GitHub repositories
type ReposCmd struct {
	List ReposListCmd `cmd:"list" help:"List repositories" default:"1"`
	Orgs ReposOrgsCmd `cmd:"orgs" help:"List organizations"`
}

// ReposListCmd lists repositories of the user or an organization
type ReposListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Org    string `help:"List the repositories of this organization instead of your own"`
}

// Run executes the list command
func (r *ReposListCmd) Run(container *Container) error {
	client, err := container.GitHub()
	if err != nil {
		return err
	}

	repos, err := client.ListRepositories(context.Background(), r.Org)
	if err != nil {
		return fmt.Errorf("failed to list repositories: %w", err)
	}

	if r.Format == "json" {
		return printJSON(repos)
	}
	return r.printTable(repos)
}

func (r *ReposListCmd) printTable(repos []domain.Repository) error {
	if len(repos) == 0 {
		fmt.Println("No repositories found")
		return nil
	}

	rows := make([][]string, 0, len(repos))
	for _, repo := range repos {
		visibility := "public"
		if repo.Private {
			visibility = "private"
		}
		rows = append(rows, []string{repo.FullName, visibility, repo.CloneURL})
	}
	fmt.Println(renderTable([]string{"NAME", "VISIBILITY", "CLONE URL"}, rows))
	return nil
}

// ReposOrgsCmd lists the user's organizations
type ReposOrgsCmd struct{}

// Run executes the orgs command
func (r *ReposOrgsCmd) Run(container *Container) error {
	client, err := container.GitHub()
	if err != nil {
		return err
	}

	orgs, err := client.ListOrganizations(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list organizations: %w", err)
	}

	if len(orgs) == 0 {
		fmt.Println("No organizations found")
		return nil
	}
	for _, org := range orgs {
		if org.Name != "" {
			fmt.Printf("%s %s\n", org.Login, theme.MutedStyle.Render("("+org.Name+")"))
			continue
		}
		fmt.Println(org.Login)
	}
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
