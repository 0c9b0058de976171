package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/familytree/internal/biography"
	"github.com/mesh-intelligence/familytree/internal/logging"
	"github.com/mesh-intelligence/familytree/internal/render"
	"github.com/mesh-intelligence/familytree/internal/session"
	"github.com/mesh-intelligence/familytree/internal/store"
	"github.com/mesh-intelligence/familytree/pkg/types"
)

const shellPrompt = "familytree> "

var (
	// errExit ends the shell loop.
	errExit = errors.New("exit")

	errNoSelection     = errors.New("no member selected; pass an id or run select <id>")
	errConfirmRequired = errors.New("confirmation required; pass --yes")
)

func newShellCmd(a *app) *cobra.Command {
	var empty bool
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Edit a family tree interactively",
		Long: "Start an editing shell over one in-memory tree. Type help inside the\n" +
			"shell for its commands. The tree is discarded when the shell exits.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := newShell(a, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			sh.start(a.initialTree(empty))
			return sh.run(cmd.Context(), cmd.InOrStdin())
		},
	}
	cmd.Flags().BoolVar(&empty, "empty", false, "start from a single-member tree instead of the configured seed")
	return cmd
}

// lockedWriter serializes writes from the command loop and from background
// biography results.
type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

type shell struct {
	app    *app
	sess   *session.Session
	out    io.Writer
	errOut io.Writer
}

func newShell(a *app, out, errOut io.Writer) (*shell, error) {
	mu := &sync.Mutex{}
	sh := &shell{
		app:    a,
		out:    lockedWriter{mu: mu, w: out},
		errOut: lockedWriter{mu: mu, w: errOut},
	}
	// Records from biography goroutines share the shell's writer lock.
	logger, err := logging.New(logging.Config{
		Level:  a.cfg.LogLevel,
		Format: a.cfg.LogFormat,
		Writer: sh.errOut,
	})
	if err != nil {
		return nil, userError(err)
	}
	a.logger = logger
	return sh, nil
}

func (sh *shell) start(root *types.Member) {
	cfg := sh.app.cfg.Biography
	sh.sess = session.New(root, sh.app.generator(cfg, sh.app.logger),
		session.WithLogger(sh.app.logger),
		session.WithBatch(cfg.Concurrency, cfg.RequestsPerMinute),
		session.OnBiography(sh.biographyDone),
	)
}

func (sh *shell) biographyDone(memberID string, r biography.Result) {
	if r.OK() {
		fmt.Fprintf(sh.out, "Biography ready for [%s]\n", memberID)
		return
	}
	fmt.Fprintf(sh.errOut, "Biography for [%s] failed: %s\n", memberID, r.Failure)
}

// run reads commands from in until exit, end of input or ctx is done. It
// waits for pending biographies before returning.
func (sh *shell) run(ctx context.Context, in io.Reader) error {
	defer sh.sess.Wait()

	if sh.app.interactive {
		fmt.Fprintln(sh.out, "Type help for commands, exit to leave.")
	}
	scanner := bufio.NewScanner(in)
	for ctx.Err() == nil {
		if sh.app.interactive {
			fmt.Fprint(sh.out, shellPrompt)
		}
		if !scanner.Scan() {
			break
		}
		err := sh.exec(ctx, scanner.Text())
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(sh.errOut, "error:", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return sysError(fmt.Errorf("read input: %w", err))
	}
	return nil
}

// exec runs one input line. Every line gets a fresh command tree so flag
// values never leak between lines.
func (sh *shell) exec(ctx context.Context, line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return userError(fmt.Errorf("parse command: %w", err))
	}
	if len(args) == 0 {
		return nil
	}
	cmd := sh.commands()
	cmd.SetArgs(args)
	cmd.SetOut(sh.out)
	cmd.SetErr(sh.errOut)
	return cmd.ExecuteContext(ctx)
}

func (sh *shell) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "shell",
		Short:         "familytree shell commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		sh.showCmd(),
		sh.statsCmd(),
		sh.selectCmd(),
		sh.addChildCmd(),
		sh.addSiblingCmd(),
		sh.editCmd(),
		sh.deleteCmd(),
		sh.resetCmd(),
		sh.sortCmd(),
		sh.bioCmd(),
		sh.waitCmd(),
		&cobra.Command{
			Use:     "exit",
			Aliases: []string{"quit"},
			Short:   "Leave the shell",
			Args:    cobra.NoArgs,
			RunE:    func(*cobra.Command, []string) error { return errExit },
		},
	)
	return root
}

// target returns the member a command acts on: the id argument when given,
// otherwise the selected member.
func (sh *shell) target(args []string) (*types.Member, error) {
	id := sh.sess.Selected()
	if len(args) > 0 {
		id = args[0]
	}
	if id == "" {
		return nil, userError(errNoSelection)
	}
	m, err := sh.sess.Member(id)
	if err != nil {
		return nil, userError(err)
	}
	return m, nil
}

// confirm asks title unless yes is set. Off a terminal an unconfirmed
// request fails with errConfirmRequired.
func (sh *shell) confirm(yes bool, title, description string) (bool, error) {
	if yes {
		return true, nil
	}
	if !sh.app.interactive {
		return false, userError(errConfirmRequired)
	}
	ok, err := sh.app.prompter.Confirm(title, description)
	if err != nil {
		return false, sysError(err)
	}
	return ok, nil
}

// fill completes f from the command's field flags, then opens the member form
// when the shell is interactive and form is set.
func (sh *shell) fill(cmd *cobra.Command, ff *fieldFlags, f *types.MemberFields, title string, form bool) error {
	if err := ff.apply(cmd.Flags(), f); err != nil {
		return userError(err)
	}
	if !sh.app.interactive || !form {
		return nil
	}
	if err := sh.app.prompter.MemberForm(title, f); err != nil {
		return userError(err)
	}
	return nil
}

func (sh *shell) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render.Outline(cmd.OutOrStdout(), sh.sess.Snapshot(), sh.sess.Selected())
		},
	}
}

func (sh *shell) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the family name, member count and generation count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render.Stats(cmd.OutOrStdout(), sh.sess.Snapshot())
		},
	}
}

func (sh *shell) selectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>",
		Short: "Select a member and print its details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := sh.sess.Select(args[0])
			if err != nil {
				return userError(err)
			}
			return render.Detail(cmd.OutOrStdout(), m)
		},
	}
}

func (sh *shell) addChildCmd() *cobra.Command {
	var ff fieldFlags
	cmd := &cobra.Command{
		Use:   "add-child [<parent-id>]",
		Short: "Add a child under a member",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent, err := sh.target(args)
			if err != nil {
				return err
			}
			f := types.MemberFields{Gender: types.GenderMale}
			if err := sh.fill(cmd, &ff, &f, "New child of "+parent.Name, !cmd.Flags().Changed(flagName)); err != nil {
				return err
			}
			id, err := sh.sess.AddChild(parent.ID, f)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s [%s] as a child of %s\n", f.Name, id, parent.Name)
			return nil
		},
	}
	ff.register(cmd.Flags())
	return cmd
}

func (sh *shell) addSiblingCmd() *cobra.Command {
	var ff fieldFlags
	cmd := &cobra.Command{
		Use:   "add-sibling [<id>]",
		Short: "Add a sibling next to a member",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := sh.target(args)
			if err != nil {
				return err
			}
			if m.ID == sh.sess.Snapshot().ID {
				return userError(types.ErrRootSibling)
			}
			f := types.MemberFields{Gender: types.GenderMale}
			if err := sh.fill(cmd, &ff, &f, "New sibling of "+m.Name, !cmd.Flags().Changed(flagName)); err != nil {
				return err
			}
			id, err := sh.sess.AddSibling(m.ID, f)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s [%s] as a sibling of %s\n", f.Name, id, m.Name)
			return nil
		},
	}
	ff.register(cmd.Flags())
	return cmd
}

func (sh *shell) editCmd() *cobra.Command {
	var (
		ff  fieldFlags
		bio string
	)
	cmd := &cobra.Command{
		Use:   "edit [<id>]",
		Short: "Change the fields of a member",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := sh.target(args)
			if err != nil {
				return err
			}
			f := m.Fields()
			form := !anyChanged(cmd.Flags(), fieldFlagNames...) && !cmd.Flags().Changed("bio")
			if err := sh.fill(cmd, &ff, &f, "Edit "+m.Name, form); err != nil {
				return err
			}
			if err := sh.sess.Update(m.ID, f); err != nil {
				return userError(err)
			}
			if cmd.Flags().Changed("bio") {
				if err := sh.sess.SetBio(m.ID, bio); err != nil {
					return userError(err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s [%s]\n", f.Name, m.ID)
			return nil
		},
	}
	ff.register(cmd.Flags())
	cmd.Flags().StringVar(&bio, "bio", "", "replace the biography text")
	return cmd
}

func (sh *shell) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete [<id>]",
		Short: "Remove a member and all of its descendants",
		Long:  "Remove a member and all of its descendants. Deleting the root starts a new tree.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := sh.target(args)
			if err != nil {
				return err
			}
			if m.ID == sh.sess.Snapshot().ID {
				return sh.reset(cmd, yes, sh.app.cfg.RootName)
			}

			descendants := store.CountMembers(m) - 1
			ok, err := sh.confirm(yes, fmt.Sprintf("Delete %s?", m.Name),
				fmt.Sprintf("%d descendants are removed with it.", descendants))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted")
				return nil
			}
			if err := sh.sess.Delete(m.ID); err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s [%s] and %d descendants\n", m.Name, m.ID, descendants)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (sh *shell) resetCmd() *cobra.Command {
	var (
		yes  bool
		name string
	)
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the tree and start a new one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("name") {
				name = sh.app.cfg.RootName
			}
			return sh.reset(cmd, yes, name)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name of the new root member")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// reset replaces the whole tree with a single root named name once the
// user confirms.
func (sh *shell) reset(cmd *cobra.Command, yes bool, name string) error {
	members := store.CountMembers(sh.sess.Snapshot())
	ok, err := sh.confirm(yes, "Start a new tree?",
		fmt.Sprintf("All %d members of the current tree are discarded.", members))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Tree kept")
		return nil
	}
	root := sh.sess.Reset(types.MemberFields{Name: name})
	fmt.Fprintf(cmd.OutOrStdout(), "Started a new tree with %s [%s]\n", root.Name, root.ID)
	return nil
}

func (sh *shell) sortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sort [<id>]",
		Short: "Order the children of a member by birth year",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := sh.target(args)
			if err != nil {
				return err
			}
			if err := sh.sess.Sort(m.ID); err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sorted the children of %s by birth year\n", m.Name)
			return nil
		},
	}
}

func (sh *shell) bioCmd() *cobra.Command {
	var all, wait bool
	cmd := &cobra.Command{
		Use:   "bio [<id>]",
		Short: "Generate a biography for a member",
		Long: "Generate a biography for a member in the background. With --all every\n" +
			"member is generated and the command returns when all are done.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if all {
				fmt.Fprintf(out, "Generating %d biographies\n", store.CountMembers(sh.sess.Snapshot()))
				if err := sh.sess.GenerateAll(cmd.Context()); err != nil {
					return sysError(err)
				}
				return nil
			}

			m, err := sh.target(args)
			if err != nil {
				return err
			}
			if err := sh.sess.RequestBiography(cmd.Context(), m.ID); err != nil {
				return userError(err)
			}
			fmt.Fprintf(out, "Generating a biography for %s [%s]\n", m.Name, m.ID)
			if !wait {
				return nil
			}
			sh.sess.Wait()
			if current, err := sh.sess.Member(m.ID); err == nil {
				fmt.Fprintln(out, current.Bio)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "generate a biography for every member")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the biography and print it")
	return cmd
}

func (sh *shell) waitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wait",
		Short: "Wait for pending biographies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh.sess.Wait()
			fmt.Fprintln(cmd.OutOrStdout(), "No biographies pending")
			return nil
		},
	}
}
