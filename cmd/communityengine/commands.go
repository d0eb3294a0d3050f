package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"CommunityEngine/internal/app"
	"CommunityEngine/internal/catalog"
	"CommunityEngine/internal/config"
	"CommunityEngine/internal/domain"
	"CommunityEngine/internal/logging"
	"CommunityEngine/internal/usecase"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "communityengine",
		Short:        "Student community feed engine",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath != "" {
				return os.Setenv("COMMUNITY_ENGINE_CONFIG", opts.configPath)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to the YAML config file")

	rootCmd.AddCommand(
		newServeCmd(),
		newFeedCmd(),
		newLikeCmd(),
		newCommentCmd(),
		newPostCmd(),
		newShareCmd(),
		newResourcesCmd(),
	)
	return rootCmd
}

// withApp builds and starts the engine for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.Application) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Load()
	logger := logging.NewWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)

	a, err := app.New(ctx, cfg, app.Deps{Logger: logger})
	if err != nil {
		return err
	}
	if err := a.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("shutdown", "error", err)
		}
	}()

	return fn(ctx, a)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the engine and expose metrics until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				return a.Run(ctx)
			})
		},
	}
}

func newFeedCmd() *cobra.Command {
	var (
		search     string
		categories []string
		sortKey    string
		loadMore   int
	)

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print the filtered community feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				for i := 0; i < loadMore; i++ {
					a.Feed().LoadMore()
				}
				page := a.Feed().Page(domain.FilterCriteria{
					SearchText: search,
					Categories: categories,
					Sort:       domain.ParseSortKey(sortKey),
				})
				printPage(cmd.OutOrStdout(), page)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "case-insensitive text to look for in titles and bodies")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "category to include (repeatable): "+categoryNames())
	cmd.Flags().StringVar(&sortKey, "sort", string(domain.SortRecent), "recent, popular or active")
	cmd.Flags().IntVar(&loadMore, "more", 0, "number of load-more steps to apply")
	return cmd
}

func newLikeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "like <post-id>",
		Short: "Toggle the viewer's like on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				res, err := a.Mutator().ToggleLike(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "post %d: liked=%t likes=%d\n", res.PostID, res.Liked, res.LikeCount)
				return nil
			})
		},
	}
}

func newCommentCmd() *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:   "comment <post-id> <text>",
		Short: "Add a comment to a post",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				if _, err := a.Feed().OpenComments(id); err != nil {
					return err
				}
				post, err := a.Feed().SubmitComment(ctx, domain.Author{Name: author}, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				c := post.Comments[0]
				fmt.Fprintf(cmd.OutOrStdout(), "post %d: %d comments; newest by %s: %s\n", post.ID, post.CommentCount, c.Author.Name, c.Content)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&author, "as", "", "author name (defaults to the configured viewer)")
	return cmd
}

func newPostCmd() *cobra.Command {
	var draft domain.PostDraft

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Submit a new post",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				handle, err := a.Mutator().SubmitPost(ctx, draft, domain.Author{})
				if err != nil {
					return err
				}
				post, err := handle.Wait(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "post %d created in %s by %s\n", post.ID, post.Category, post.Author.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&draft.Title, "title", "", "post title")
	cmd.Flags().StringVar(&draft.Content, "content", "", "post body")
	cmd.Flags().StringVar(&draft.Category, "category", "", "one of: "+categoryNames())
	cmd.Flags().BoolVar(&draft.Anonymous, "anonymous", false, "post as Anonymous User")
	return cmd
}

func newShareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share <post-id>",
		Short: "Share a post and print its link once the share completes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				handle, err := a.Feed().OpenShare(ctx, id)
				if err != nil {
					return err
				}
				uri, err := handle.Wait(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), uri)
				return nil
			})
		},
	}
}

func newResourcesCmd() *cobra.Command {
	var criteria catalog.Criteria

	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Print the wellbeing resource catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				page := a.Resources().Page(criteria)
				out := cmd.OutOrStdout()
				if page.Empty() {
					fmt.Fprintln(out, "No resources match your filters")
					return nil
				}
				for _, r := range page.Resources {
					fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Format, r.Category, r.Duration, r.Title)
				}
				if page.HasMore {
					fmt.Fprintf(out, "... %d more\n", page.Total-len(page.Resources))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&criteria.Search, "search", "", "text to look for in titles and descriptions")
	cmd.Flags().StringSliceVar(&criteria.Categories, "category", nil, "category slug, e.g. mental-health (repeatable)")
	cmd.Flags().StringSliceVar(&criteria.Formats, "format", nil, "article, video, podcast or audio (repeatable)")
	return cmd
}

func printPage(out io.Writer, page usecase.Page) {
	if page.Empty() {
		fmt.Fprintln(out, "No posts match your filters")
		return
	}
	for _, p := range page.Posts {
		fmt.Fprintf(out, "%d\t[%s]\t%s\t%s\tlikes=%d comments=%d\t%s\n",
			p.ID, p.Category, p.Author.Name, p.CreatedLabel, p.LikeCount, p.CommentCount, p.Title)
	}
	if page.HasMore {
		fmt.Fprintf(out, "... %d more (use --more)\n", page.Total-len(page.Posts))
	}
}

func categoryNames() string {
	names := make([]string, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		names = append(names, c.Key())
	}
	return strings.Join(names, ", ")
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid post id %q: %w", raw, err)
	}
	return id, nil
}
