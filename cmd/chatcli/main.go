package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sentiment-chat-demo/backend/pkg/chatclient"
)

func main() {
	serverPtr := flag.String("server", "http://localhost:8080", "chat API base URL")
	nicknamePtr := flag.String("nickname", "", "nickname to chat as (2-20 chars)")
	intervalPtr := flag.Duration("interval", 3*time.Second, "poll interval")
	flag.Parse()

	nickname := strings.TrimSpace(*nicknamePtr)
	if nickname == "" {
		fmt.Println("Chat CLI Usage:")
		fmt.Println("  -nickname   nickname to chat as (required)")
		fmt.Println("  -server     chat API base URL")
		fmt.Println("  -interval   poll interval")
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	client := chatclient.New(*serverPtr)

	user, err := client.CreateUser(ctx, nickname)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to join as %q: %v\n", nickname, err)
		os.Exit(1)
	}
	fmt.Printf("joined as %s (user %d), polling every %v\n", user.Nickname, user.ID, *intervalPtr)

	syncer := chatclient.NewSyncer(func(ctx context.Context, since *time.Time) ([]chatclient.Message, error) {
		return client.Messages(ctx, since, 0)
	})

	go syncer.Run(ctx, *intervalPtr,
		func(added []chatclient.Message) {
			for _, m := range added {
				printMessage(m)
			}
		},
		func(err error) {
			fmt.Fprintf(os.Stderr, "sync failed: %v\n", err)
		},
	)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "/quit" {
			break
		}

		msg, err := client.PostMessage(ctx, user.ID, text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "send failed: %v\n", err)
			continue
		}
		// Fold our own message in immediately instead of waiting a poll
		syncer.Merge([]chatclient.Message{msg})
	}

	cancel()
}

func printMessage(m chatclient.Message) {
	badge := ""
	switch m.Sentiment {
	case "POSITIVE":
		badge = " [+]"
	case "NEGATIVE":
		badge = " [-]"
	}
	fmt.Printf("[%s] %s:%s %s\n",
		m.CreatedAt.Local().Format("15:04:05"),
		m.User.Nickname,
		badge,
		m.Text,
	)
}
