package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/liamwears/reelbrowser/internal/client"
	"github.com/liamwears/reelbrowser/internal/handlers"
	"github.com/liamwears/reelbrowser/internal/pager"
)

const browseHelp = "n: next page  p: previous page  <number>: go to page  q: quit"

// runBrowse pages through popular movies in the terminal against a running
// server's /api endpoints.
func runBrowse(args []string, in io.Reader, out io.Writer) error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	fs := flag.NewFlagSet("browse", flag.ContinueOnError)
	fs.SetOutput(out)
	base := fs.String("base", "http://localhost:"+port, "server base URL")
	page := fs.String("page", "1", "first page to load")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ctx := context.Background()
	c := client.New(*base, nil)

	home := handlers.LoadHomePage(ctx, c, *page, logger)
	ctrl := pager.New(c, pager.Snapshot{
		Movies:     home.Movies,
		Page:       home.Page,
		TotalPages: home.TotalPages,
		Error:      home.Error,
	})
	ctrl.OnPageChange(func(s pager.Snapshot) { drawPage(out, s) })

	drawPage(out, ctrl.Snapshot())
	fmt.Fprintln(out, browseHelp)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		cmd := strings.TrimSpace(scanner.Text())
		var moved bool
		switch cmd {
		case "q", "quit":
			return nil
		case "n":
			moved = ctrl.Next(ctx)
		case "p":
			moved = ctrl.Prev(ctx)
		case "":
			continue
		default:
			n, err := strconv.Atoi(cmd)
			if err != nil {
				fmt.Fprintln(out, browseHelp)
				continue
			}
			moved = ctrl.GoTo(ctx, n)
		}

		s := ctrl.Snapshot()
		switch {
		case !moved:
			fmt.Fprintf(out, "Page %d of %d, nothing to do\n", s.Page, s.TotalPages)
		case s.State == pager.StateError:
			fmt.Fprintf(out, "Error: %s\n", s.Error)
		}
	}
}

// drawPage prints one page of the list the way the home page lays it out
func drawPage(out io.Writer, s pager.Snapshot) {
	if s.Error != "" {
		fmt.Fprintf(out, "Error: %s\n", s.Error)
	}
	for _, m := range s.Movies {
		fmt.Fprintf(out, "%8d  %s (%s)  评分: %s\n", m.ID, m.Title, handlers.ReleaseYear(m.ReleaseDate), handlers.Rating(m.VoteAverage))
	}
	fmt.Fprintf(out, "第 %d 页 / 共 %d 页\n", s.Page, s.TotalPages)
}
