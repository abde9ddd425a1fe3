package cmd

import (
	"context"
	"fmt"

	"github.com/renato0307/shellbox/internal/theme"
)

// GitStashCmd manages the stash stack
type GitStashCmd struct {
	Apply GitStashApplyCmd `cmd:"apply" help:"Apply a stash and keep it"`
	Drop  GitStashDropCmd  `cmd:"drop" help:"Delete a stash"`
	List  GitStashListCmd  `cmd:"list" help:"List stashes" default:"1"`
	Pop   GitStashPopCmd   `cmd:"pop" help:"Apply a stash and delete it"`
	Save  GitStashSaveCmd  `cmd:"save" help:"Stash changes, untracked files included"`
}

// GitStashListCmd lists stashes
type GitStashListCmd struct {
	SessionFlag
}

// Run executes the list command
func (g *GitStashListCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := g.resolve(ctx, container)
	if err != nil {
		return err
	}

	stashes, err := container.GitService.StashList(ctx, session.ContainerName)
	if err != nil {
		return err
	}
	if len(stashes) == 0 {
		fmt.Println("No stashes")
		return nil
	}
	for _, s := range stashes {
		fmt.Printf("%s %s\n", theme.BranchStyle.Render(fmt.Sprintf("stash@{%d}", s.Index)), s.Message)
	}
	return nil
}

// GitStashSaveCmd stashes changes
type GitStashSaveCmd struct {
	SessionFlag
	Message string `help:"Stash message" short:"m"`
}

// Run executes the save command
func (g *GitStashSaveCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := g.resolve(ctx, container)
	if err != nil {
		return err
	}
	output, err := container.GitService.Stash(ctx, session.ContainerName, g.Message)
	if err != nil {
		return err
	}
	fmt.Print(output)
	return nil
}

// GitStashApplyCmd applies a stash
type GitStashApplyCmd struct {
	SessionFlag
	Index int `arg:"" optional:"" help:"Stash index" default:"0"`
}

// Run executes the apply command
func (g *GitStashApplyCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := g.resolve(ctx, container)
	if err != nil {
		return err
	}
	output, err := container.GitService.StashApply(ctx, session.ContainerName, g.Index)
	if err != nil {
		return err
	}
	fmt.Print(output)
	return nil
}

// GitStashPopCmd applies and drops a stash
type GitStashPopCmd struct {
	SessionFlag
	Index int `arg:"" optional:"" help:"Stash index" default:"0"`
}

// Run executes the pop command
func (g *GitStashPopCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := g.resolve(ctx, container)
	if err != nil {
		return err
	}
	output, err := container.GitService.StashPop(ctx, session.ContainerName, g.Index)
	if err != nil {
		return err
	}
	fmt.Print(output)
	return nil
}

// GitStashDropCmd drops a stash
type GitStashDropCmd struct {
	SessionFlag
	Index int `arg:"" help:"Stash index"`
}

// Run executes the drop command
func (g *GitStashDropCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := g.resolve(ctx, container)
	if err != nil {
		return err
	}
	output, err := container.GitService.StashDrop(ctx, session.ContainerName, g.Index)
	if err != nil {
		return err
	}
	fmt.Print(output)
	return nil
}
