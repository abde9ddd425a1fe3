package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/theme"
)

// GitCmd runs source control operations inside a session
type GitCmd struct {
	Add      GitAddCmd      `cmd:"add" help:"Stage files"`
	Branches GitBranchesCmd `cmd:"branches" help:"List local branches"`
	Checkout GitCheckoutCmd `cmd:"checkout" help:"Switch to or create a branch"`
	Commit   GitCommitCmd   `cmd:"commit" help:"Commit staged changes"`
	Diff     GitDiffCmd     `cmd:"diff" help:"Show unstaged or staged changes"`
	Discard  GitDiscardCmd  `cmd:"discard" help:"Discard unstaged changes to files"`
	Log      GitLogCmd      `cmd:"log" help:"Show recent commits"`
	Pull     GitPullCmd     `cmd:"pull" help:"Pull the current branch"`
	Push     GitPushCmd     `cmd:"push" help:"Push the current branch"`
	Show     GitShowCmd     `cmd:"show" help:"Show a commit"`
	Stash    GitStashCmd    `cmd:"stash" help:"Manage stashes"`
	Status   GitStatusCmd   `cmd:"status" help:"Show the working tree status" default:"1"`
	Unstage  GitUnstageCmd  `cmd:"unstage" help:"Remove files from the index"`
}

// GitStatusCmd prints the working tree status
type GitStatusCmd struct {
	SessionFlag
	Format string `help:"Output format: text or json" enum:"text,json" default:"text"`
}

// Run executes the status command
func (g *GitStatusCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := g.resolve(ctx, container)
	if err != nil {
		return err
	}

	status, err := container.SourceControl(session).Status(ctx)
	if err != nil {
		return err
	}
	if g.Format == "json" {
		return printJSON(status)
	}

	branch := status.Branch
	if branch == "" {
		branch = "(detached)"
	}
	line := "On branch " + theme.BranchStyle.Render(branch)
	if status.Ahead > 0 || status.Behind > 0 {
		line += theme.MutedStyle.Render(fmt.Sprintf(" [ahead %d, behind %d]", status.Ahead, status.Behind))
	}
	fmt.Println(line)

	if status.IsClean() {
		fmt.Println("Nothing to commit, working tree clean")
		return nil
	}
	printChanges("Staged", status.Staged)
	printChanges("Changes", status.Unstaged)
	if len(status.Untracked) > 0 {
		fmt.Println(theme.HeaderStyle.Render("\nUntracked"))
		for _, p := range status.Untracked {
			fmt.Println("  " + theme.AddedStyle.Render("?") + " " + p)
		}
	}
	return nil
}

func printChanges(title string, changes []domain.FileChange) {
	if len(changes) == 0 {
		return
	}
	fmt.Println(theme.HeaderStyle.Render("\n" + title))
	for _, c := range changes {
		marker := strings.ToUpper(string(c.Kind)[:1])
		fmt.Println("  " + theme.ChangeStyle(c.Kind).Render(marker) + " " + c.Path)
	}
}

// GitAddCmd stages files
type GitAddCmd struct {
	SessionFlag
	All   bool     `help:"Stage every change" short:"A"`
	Files []string `arg:"" optional:"" help:"Files to stage"`
}

// Run executes the add command
func (g *GitAddCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := g.resolve(ctx, container)
	if err != nil {
		return err
	}
	if g.All {
		return container.SourceControl(session).StageAll(ctx)
	}
	return container.SourceControl(session).Stage(ctx, g.Files)
}

// GitUnstageCmd unstages files
type GitUnstageCmd struct {
	SessionFlag
	Files []string `arg:"" help:"Files to unstage"`
}

// Run executes the unstage command
func (g *GitUnstageCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := g.resolve(ctx, container)
	if err != nil {
		return err
	}
	return container.SourceControl(session).Unstage(ctx, g.Files)
}

// GitDiscardCmd discards working tree changes
type GitDiscardCmd struct {
	SessionFlag
	Files []string `arg:"" help:"Files to restore"`
}

// Run executes the discard command
func (g *GitDiscardCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := g.resolve(ctx, container)
	if err != nil {
		return err
	}
	return container.GitService.DiscardChanges(ctx, session.ContainerName, g.Files)
}

// GitCommitCmd commits staged changes
type GitCommitCmd struct {
	SessionFlag
	Message string `help:"Commit message" short:"m" required:""`
}

// Run executes the commit command
func (g *GitCommitCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := g.resolve(ctx, container)
	if err != nil {
		return err
	}
	output, err := container.SourceControl(session).Commit(ctx, g.Message)
	if err != nil {
		return err
	}
	fmt.Print(output)
	return nil
}

// GitPushCmd pushes the current branch
type GitPushCmd struct {
	SessionFlag
}

// Run executes the push command
func (g *GitPushCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := g.resolve(ctx, container)
	if err != nil {
		return err
	}
	output, err := container.SourceControl(session).Push(ctx)
	if err != nil {
		return err
	}
	fmt.Print(output)
	return nil
}

// GitPullCmd pulls the current branch
type GitPullCmd struct {
	SessionFlag
}

// Run executes the pull command
func (g *GitPullCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := g.resolve(ctx, container)
	if err != nil {
		return err
	}
	output, err := container.SourceControl(session).Pull(ctx)
	if err != nil {
		return err
	}
	fmt.Print(output)
	return nil
}

// GitLogCmd lists recent commits
type GitLogCmd struct {
	SessionFlag
	Count int `help:"Number of commits" short:"n" default:"20"`
}

// Run executes the log command
func (g *GitLogCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := g.resolve(ctx, container)
	if err != nil {
		return err
	}

	commits, err := container.GitService.Log(ctx, session.ContainerName, g.Count)
	if err != nil {
		return err
	}
	if len(commits) == 0 {
		fmt.Println("No commits yet")
		return nil
	}
	for _, c := range commits {
		fmt.Printf("%s %s %s\n", theme.BranchStyle.Render(c.ShortHash), c.Message,
			theme.MutedStyle.Render("("+c.Author+", "+c.RelativeDate+")"))
	}
	return nil
}

// GitBranchesCmd lists local branches
type GitBranchesCmd struct {
	SessionFlag
}

// Run executes the branches command
func (g *GitBranchesCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := g.resolve(ctx, container)
	if err != nil {
		return err
	}

	branches, err := container.GitService.Branches(ctx, session.ContainerName)
	if err != nil {
		return err
	}
	for _, b := range branches {
		if b.IsCurrent {
			fmt.Println("* " + theme.BranchStyle.Render(b.Name))
			continue
		}
		fmt.Println("  " + b.Name)
	}
	return nil
}

// GitCheckoutCmd switches branches
type GitCheckoutCmd struct {
	SessionFlag
	Branch string `arg:"" help:"Branch name"`
	Create bool   `help:"Create the branch first" short:"b"`
}

// Run executes the checkout command
func (g *GitCheckoutCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := g.resolve(ctx, container)
	if err != nil {
		return err
	}
	if g.Create {
		return container.GitService.CreateBranch(ctx, session.ContainerName, g.Branch)
	}
	return container.GitService.Checkout(ctx, session.ContainerName, g.Branch)
}

// GitDiffCmd prints a diff
type GitDiffCmd struct {
	SessionFlag
	File   string `arg:"" optional:"" help:"Limit the diff to one file"`
	Staged bool   `help:"Show staged changes"`
}

// Run executes the diff command
func (g *GitDiffCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := g.resolve(ctx, container)
	if err != nil {
		return err
	}

	var diff string
	if g.Staged {
		diff, err = container.GitService.DiffStaged(ctx, session.ContainerName, g.File)
	} else {
		diff, err = container.GitService.Diff(ctx, session.ContainerName, g.File)
	}
	if err != nil {
		return err
	}
	fmt.Print(colorDiff(diff))
	return nil
}

func colorDiff(diff string) string {
	lines := strings.SplitAfter(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = theme.HeaderStyle.Render(strings.TrimSuffix(line, "\n")) + suffix(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = theme.AddedStyle.Render(strings.TrimSuffix(line, "\n")) + suffix(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = theme.DeletedStyle.Render(strings.TrimSuffix(line, "\n")) + suffix(line)
		}
	}
	return strings.Join(lines, "")
}

func suffix(line string) string {
	if strings.HasSuffix(line, "\n") {
		return "\n"
	}
	return ""
}

// GitShowCmd prints a commit
type GitShowCmd struct {
	SessionFlag
	Revision string `arg:"" help:"Commit hash or revision"`
}

// Run executes the show command
func (g *GitShowCmd) Run(container *Container) error {
	ctx := context.Background()
	session, err := g.resolve(ctx, container)
	if err != nil {
		return err
	}
	output, err := container.GitService.Show(ctx, session.ContainerName, g.Revision)
	if err != nil {
		return err
	}
	fmt.Print(colorDiff(output))
	return nil
}
