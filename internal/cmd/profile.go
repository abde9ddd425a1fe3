package cmd

import (
	"context"
	"fmt"
	"strings"
)

// ProfileCmd manages saved run commands, keyed by repository URL
type ProfileCmd struct {
	Clear ProfileClearCmd `cmd:"clear" help:"Forget the saved run command"`
	Set   ProfileSetCmd   `cmd:"set" help:"Save a run command"`
	Show  ProfileShowCmd  `cmd:"show" help:"Show the saved run command" default:"1"`
}

// ProfileTarget selects the repository by URL or through a session
type ProfileTarget struct {
	SessionFlag
	Repo string `help:"Repository URL (defaults to the session's repository)"`
}

func (p ProfileTarget) repoURL(ctx context.Context, container *Container) (string, error) {
	if p.Repo != "" {
		return p.Repo, nil
	}
	session, err := p.resolve(ctx, container)
	if err != nil {
		return "", err
	}
	return session.RepoURL, nil
}

// ProfileShowCmd prints the saved run command
type ProfileShowCmd struct {
	ProfileTarget
}

// Run executes the show command
func (p *ProfileShowCmd) Run(container *Container) error {
	repo, err := p.repoURL(context.Background(), container)
	if err != nil {
		return err
	}
	command, err := container.Profiles.Command(repo)
	if err != nil {
		return err
	}
	if command == "" {
		fmt.Println("No saved run command; the command is detected from the project files")
		return nil
	}
	fmt.Println(command)
	return nil
}

// ProfileSetCmd saves a run command
type ProfileSetCmd struct {
	ProfileTarget
	Command []string `arg:"" help:"Command to run, e.g. 'make dev'"`
}

// Run executes the set command
func (p *ProfileSetCmd) Run(container *Container) error {
	repo, err := p.repoURL(context.Background(), container)
	if err != nil {
		return err
	}
	command := strings.Join(p.Command, " ")
	if err := container.Profiles.SetCommand(repo, command); err != nil {
		return err
	}
	fmt.Printf("Saved run command for %s\n", repo)
	return nil
}

// ProfileClearCmd deletes the saved run command
type ProfileClearCmd struct {
	ProfileTarget
}

// Run executes the clear command
func (p *ProfileClearCmd) Run(container *Container) error {
	repo, err := p.repoURL(context.Background(), container)
	if err != nil {
		return err
	}
	if err := container.Profiles.SetCommand(repo, ""); err != nil {
		return err
	}
	fmt.Printf("Cleared run command for %s\n", repo)
	return nil
}
