// Debug websocket client. Mints a connect token locally with the server's
// secret, opens the live channel, prints pushed messages as they arrive,
// and can dump history as a table. Development tooling, not a user client.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/olekukonko/tablewriter"

	"github.com/Auhnip/chat-app-backend/auth"
	"github.com/Auhnip/chat-app-backend/domain"
)

func main() {
	server := flag.String("server", "localhost:8080", "host:port of the chat server")
	user := flag.String("user", "", "user to connect as")
	secret := flag.String("secret", "", "JWT secret shared with the server")
	history := flag.Int("history", 0, "dump history for the last N days (7, 14 or 30) and exit")
	flag.Parse()

	if *user == "" || *secret == "" {
		log.Fatal("both -user and -secret are required")
	}

	token, err := auth.NewTokenVerifier(*secret).Mint(domain.UserID(*user), time.Hour)
	if err != nil {
		log.Fatal("Error while minting token: ", err)
	}

	if *history > 0 {
		if err := dumpHistory(*server, token, *history); err != nil {
			log.Fatal("Error while fetching history: ", err)
		}
		return
	}

	if err := listen(*server, *user, token); err != nil {
		log.Fatal("Error on live channel: ", err)
	}
}

func listen(server, user, token string) error {
	url := fmt.Sprintf("ws://%s/ws?token=%s", server, token)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	header := color.New(color.BgBlack, color.FgGreen).Render(fmt.Sprintf(" connected as %s ", user))
	fmt.Println(header)

	for {
		_, body, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		msg, err := domain.DecodeMessage(body)
		if err != nil {
			fmt.Println(color.Red.Render("undecodable frame: " + string(body)))
			continue
		}
		printMessage(msg)
	}
}

func printMessage(msg domain.Message) {
	stamp := color.Gray.Render(msg.Timestamp().Local().Format(time.TimeOnly))
	switch m := msg.(type) {
	case domain.PrivateMessage:
		from := color.Cyan.Render(string(m.From))
		fmt.Printf("%s %s: %s\n", stamp, from, m.Content)
	case domain.GroupMessage:
		from := color.Cyan.Render(string(m.From))
		group := color.Yellow.Render(fmt.Sprintf("[group %d]", m.To))
		fmt.Printf("%s %s %s: %s\n", stamp, group, from, m.Content)
	}
}

func dumpHistory(server, token string, sinceDays int) error {
	payload, err := json.Marshal(map[string]int{"sinceDays": sinceDays})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("http://%s/message/history", server), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var wrapper struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    struct {
			Messages []json.RawMessage `json:"messages"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return err
	}
	if wrapper.Code != 1000 {
		return fmt.Errorf("server refused: %s", wrapper.Message)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Sent At", "Kind", "From", "To", "Content"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, raw := range wrapper.Data.Messages {
		msg, err := domain.DecodeMessage(raw)
		if err != nil {
			continue
		}
		switch m := msg.(type) {
		case domain.PrivateMessage:
			table.Append([]string{m.SentAt.Local().Format(time.DateTime), "private", string(m.From), string(m.To), m.Content})
		case domain.GroupMessage:
			table.Append([]string{m.SentAt.Local().Format(time.DateTime), "group", string(m.From), fmt.Sprintf("%d", m.To), m.Content})
		}
	}
	table.Render()
	return nil
}
