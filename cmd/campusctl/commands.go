package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/campus-connect/internal/model"
	"github.com/sakif/campus-connect/internal/repository"
	"github.com/sakif/campus-connect/internal/store"
)

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show collection sizes and the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.repo(cmd.Context())
			if err != nil {
				return err
			}
			users, posts := r.Counts()

			var comments int
			for _, p := range r.Posts() {
				comments += len(p.Comments)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "users:    %d\n", users)
			fmt.Fprintf(out, "posts:    %d\n", posts)
			fmt.Fprintf(out, "comments: %d\n", comments)
			if u, ok := r.CurrentUser(); ok {
				fmt.Fprintf(out, "session:  %s (%s)\n", u.Username, u.Email)
			} else {
				fmt.Fprintln(out, "session:  none")
			}
			if l, ok := c.store.(store.Lister); ok {
				keys, err := l.Keys(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "keys:     %s\n", strings.Join(keys, ", "))
			}
			return nil
		},
	}
}

func (c *cli) usersCmd() *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List users in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.repo(cmd.Context())
			if err != nil {
				return err
			}
			users := r.Users()
			if len(users) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No users found.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSERNAME\tCOLLEGE\tEMAIL\tFOLLOWING\tSAVED")
			for _, u := range users {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
					u.ID, u.Username, u.College, u.Email, len(u.Following), len(u.SavedPosts))
			}
			return tw.Flush()
		},
	}

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect users",
		RunE:  list.RunE,
	}
	cmd.AddCommand(list)
	return cmd
}

func (c *cli) postsCmd() *cobra.Command {
	var limit int

	list := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.repo(cmd.Context())
			if err != nil {
				return err
			}
			posts := r.Posts()
			if limit > 0 && len(posts) > limit {
				posts = posts[:limit]
			}
			if len(posts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No posts found.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tAUTHOR\tCOLLEGE\tCREATED\tLIKES\tDISLIKES\tCOMMENTS\tCONTENT")
			for _, p := range posts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					p.ID, p.Username, p.College, p.CreatedAt.Format(time.RFC3339),
					len(p.Likes), len(p.Dislikes), len(p.Comments), truncate(p.Content, 40))
			}
			return tw.Flush()
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n posts (0 = all)")

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Inspect posts",
	}
	cmd.AddCommand(list)
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.repo(cmd.Context())
			if err != nil {
				return err
			}
			if err := r.LogoutUser(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
			return nil
		},
	}
}

// snapshot is the export file format: every store document, as stored.
type snapshot struct {
	ExportedAt  time.Time       `json:"exportedAt"`
	Users       json.RawMessage `json:"users"`
	Posts       json.RawMessage `json:"posts"`
	CurrentUser json.RawMessage `json:"currentUser,omitempty"`
}

func (c *cli) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write every store document to a JSON file (default stdout)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap := snapshot{
				ExportedAt: time.Now().UTC(),
				Users:      json.RawMessage(`[]`),
				Posts:      json.RawMessage(`[]`),
			}
			for key, dst := range map[string]*json.RawMessage{
				store.KeyUsers:       &snap.Users,
				store.KeyPosts:       &snap.Posts,
				store.KeyCurrentUser: &snap.CurrentUser,
			} {
				data, ok, err := c.store.Load(ctx, key)
				if err != nil {
					return fmt.Errorf("reading %s: %w", key, err)
				}
				if ok {
					*dst = data
				}
			}

			var w io.Writer = cmd.OutOrStdout()
			if len(args) == 1 {
				f, err := os.Create(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		},
	}
}

func (c *cli) importCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the store contents with an export file",
		Long: `Replace the store contents with an export file.

The file is checked before anything is written: user ids, post ids and
emails must be unique, id lists must not repeat, and no user may both
like and dislike a post. Missing lists are stored as [].`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var snap snapshot
			if err := json.Unmarshal(raw, &snap); err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			var users []*model.User
			if err := json.Unmarshal(orEmpty(snap.Users), &users); err != nil {
				return fmt.Errorf("parsing users: %w", err)
			}
			var posts []*model.Post
			if err := json.Unmarshal(orEmpty(snap.Posts), &posts); err != nil {
				return fmt.Errorf("parsing posts: %w", err)
			}
			users, posts, err = repository.PrepareSnapshot(users, posts)
			if err != nil {
				return fmt.Errorf("rejecting %s: %w", args[0], err)
			}

			if !force {
				if _, ok, err := c.store.Load(ctx, store.KeyUsers); err != nil {
					return err
				} else if ok {
					return fmt.Errorf("store already has data; pass --force to replace it")
				}
			}

			if err := store.SaveJSON(ctx, c.store, store.KeyUsers, users); err != nil {
				return err
			}
			if err := store.SaveJSON(ctx, c.store, store.KeyPosts, posts); err != nil {
				return err
			}
			if len(snap.CurrentUser) > 0 && string(snap.CurrentUser) != "null" {
				err = c.store.Save(ctx, store.KeyCurrentUser, snap.CurrentUser)
			} else {
				err = c.store.Clear(ctx, store.KeyCurrentUser)
			}
			if err != nil {
				return err
			}

			// Loading through the repository drops a session that points at
			// a user the file does not contain.
			r, err := c.repo(ctx)
			if err != nil {
				return err
			}
			nu, np := r.Counts()
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d users and %d posts.\n", nu, np)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace a store that already has data")
	return cmd
}

func orEmpty(b json.RawMessage) json.RawMessage {
	if len(b) == 0 || string(b) == "null" {
		return json.RawMessage(`[]`)
	}
	return b
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
