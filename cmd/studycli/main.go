package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang-jwt/jwt/v5"
)

type card struct {
	ID       int64  `json:"id"`
	Front    string `json:"front"`
	Back     string `json:"back"`
	Interval int    `json:"interval"`
}

type checkResult struct {
	IsCorrect  bool    `json:"isCorrect"`
	Similarity float64 `json:"similarity"`
}

type scoreResult struct {
	Gamification struct {
		XPEarned  int  `json:"xpEarned"`
		NewStreak int  `json:"newStreak"`
		LevelUp   bool `json:"levelUp"`
		NewLevel  int  `json:"newLevel"`
	} `json:"gamification"`
}

type sessionState struct {
	loggedIn  bool
	username  string
	jwt       string
	deckID    int64
	queue     []card
	showBack  bool
	lastCheck *checkResult
	lastScore *scoreResult
}

type loginPacket struct {
	username string
	jwt      string
}

type dueCardsMsg []card
type checkMsg checkResult
type scoreMsg scoreResult
type errMsg string

func (s *sessionState) View() string {
	if !s.loggedIn {
		return "You are not logged in. Hit enter to open a StudyHall log-in window."
	}
	header := "You are logged in as " + s.username
	var body string
	var footer string
	if len(s.queue) == 0 {
		body = "No cards loaded. Type \"deck <id>\" to pick a deck, then \"next\"\n" +
			"to fetch your due cards."
	} else {
		c := s.queue[0]
		body = strings.Repeat("-", 20)
		body += "\n\n"
		body += "  " + c.Front
		body += "\n\n"
		if s.showBack {
			body += "  " + c.Back + "\n"
		}
		if s.lastCheck != nil {
			verdict := "incorrect"
			if s.lastCheck.IsCorrect {
				verdict = "correct"
			}
			body += fmt.Sprintf("\n  Your answer was %s (similarity %.2f)\n",
				verdict, s.lastCheck.Similarity)
		}
		footer = "(0-5) Grade recall    (F) Flip\n\nOr type an answer and hit enter to have it checked."
	}
	if s.lastScore != nil {
		g := s.lastScore.Gamification
		footer += fmt.Sprintf("\n\n+%d XP, streak %d", g.XPEarned, g.NewStreak)
		if g.LevelUp {
			footer += fmt.Sprintf(" -- level up! Now level %d", g.NewLevel)
		}
	}
	return header + "\n\n" + body + "\n\n" +
		strings.Repeat("-", 25) + "\n" + footer + "\n"
}

type model struct {
	textInput             textinput.Model
	mgr                   *sessionState
	callbackserverStarted bool
	studyhallURI          string
	apiURI                string
	callbackChan          chan string
}

func initialModel(studyhallURI, apiURI string) model {
	ti := textinput.New()
	ti.Placeholder = "Answer"
	ti.Focus()
	ti.CharLimit = 80
	ti.Width = 40

	mgr := new(sessionState)
	callbackChan := make(chan string)

	// Register the callback handler once
	http.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			fmt.Fprintf(w, "Login successful! You can close this window.")
			callbackChan <- token
		} else {
			http.Error(w, "Token not found", http.StatusBadRequest)
		}
	})

	return model{
		textInput:    ti,
		mgr:          mgr,
		studyhallURI: studyhallURI,
		apiURI:       apiURI,
		callbackChan: callbackChan,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.Type {

		case tea.KeyCtrlC:
			return m, tea.Quit

		case tea.KeyEnter:
			if !m.mgr.loggedIn {
				if !m.callbackserverStarted {
					m.callbackserverStarted = true
					return m, loginCmd(m.studyhallURI, m.callbackChan)
				}
				fmt.Println("Already listening for a callback")
				return m, nil
			}
			input := strings.TrimSpace(m.textInput.Value())
			m.textInput.Reset()
			return m, m.handleCommand(input)

		case tea.KeyRunes:
			// Single-key grading only when the input box is empty, so
			// digits can still be typed inside answers.
			if m.mgr.loggedIn && len(m.mgr.queue) > 0 && m.textInput.Value() == "" {
				r := msg.Runes[0]
				if r >= '0' && r <= '5' {
					return m, m.scoreCmd(int(r - '0'))
				}
				if r == 'f' || r == 'F' {
					m.mgr.showBack = !m.mgr.showBack
					return m, nil
				}
			}
		}

	case loginPacket:
		m.callbackserverStarted = false
		m.mgr.loggedIn = true
		m.mgr.username = msg.username
		m.mgr.jwt = msg.jwt

	case dueCardsMsg:
		m.mgr.queue = msg
		m.mgr.showBack = false
		m.mgr.lastCheck = nil
		m.mgr.lastScore = nil

	case checkMsg:
		res := checkResult(msg)
		m.mgr.lastCheck = &res

	case scoreMsg:
		res := scoreResult(msg)
		m.mgr.lastScore = &res
		m.mgr.lastCheck = nil
		m.mgr.showBack = false
		if len(m.mgr.queue) > 0 {
			m.mgr.queue = m.mgr.queue[1:]
		}

	case errMsg:
		log.Print("Possible error: " + string(msg))

	}
	m.textInput, cmd = m.textInput.Update(msg)

	return m, cmd
}

func (m model) View() string {
	return fmt.Sprintf("%s\n\n%s\n\n", m.mgr.View(), m.textInput.View())
}

func (m model) handleCommand(input string) tea.Cmd {
	switch {
	case strings.HasPrefix(input, "deck "):
		var id int64
		if _, err := fmt.Sscanf(input, "deck %d", &id); err != nil {
			return func() tea.Msg { return errMsg("could not parse deck id") }
		}
		m.mgr.deckID = id
		return nil
	case input == "next":
		return m.fetchDueCmd()
	case input == "":
		return nil
	default:
		if len(m.mgr.queue) == 0 {
			return func() tea.Msg { return errMsg("no card to check against") }
		}
		return m.checkCmd(input)
	}
}

func (m model) fetchDueCmd() tea.Cmd {
	return func() tea.Msg {
		var cards []card
		uri := fmt.Sprintf("%s/api/v1/decks/%d/due?limit=20", m.apiURI, m.mgr.deckID)
		if err := m.apiCall("GET", uri, nil, &cards); err != nil {
			return errMsg(err.Error())
		}
		return dueCardsMsg(cards)
	}
}

func (m model) checkCmd(answer string) tea.Cmd {
	cardID := m.mgr.queue[0].ID
	return func() tea.Msg {
		var res checkResult
		body := map[string]any{"cardId": cardID, "answer": answer}
		if err := m.apiCall("POST", m.apiURI+"/api/v1/cards/check", body, &res); err != nil {
			return errMsg(err.Error())
		}
		return checkMsg(res)
	}
}

func (m model) scoreCmd(quality int) tea.Cmd {
	cardID := m.mgr.queue[0].ID
	_, offset := time.Now().Zone()
	return func() tea.Msg {
		var res scoreResult
		body := map[string]any{
			"cardId":  cardID,
			"quality": quality,
			// Same sign convention as JS getTimezoneOffset.
			"timezoneOffsetMinutes": -offset / 60,
		}
		if err := m.apiCall("POST", m.apiURI+"/api/v1/cards/score", body, &res); err != nil {
			return errMsg(err.Error())
		}
		return scoreMsg(res)
	}
}

func (m model) apiCall(method, uri string, body, out any) error {
	var rdr *bytes.Reader
	if body != nil {
		bts, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(bts)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, uri, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.mgr.jwt)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("api returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Cmd to handle login logic
func loginCmd(studyhallURI string, callbackChan chan string) tea.Cmd {
	return func() tea.Msg {
		server := &http.Server{Addr: ":8521"}

		serverShutdownChan := make(chan struct{})

		go startCallbackServer(server, serverShutdownChan)

		// Open the browser to the login page
		openBrowser(fmt.Sprintf("%s/jwt?callback=http://localhost:8521/callback", studyhallURI))

		select {
		case loginjwt := <-callbackChan:
			p := jwt.NewParser()
			claims := jwt.MapClaims{}
			// As the client we don't need to (and can't) verify the signature
			// of the jwt.
			_, _, err := p.ParseUnverified(loginjwt, &claims)

			if err != nil {
				return errMsg("Invalid token. Please log in again." + err.Error())
			}
			var username string
			var ok bool
			if username, ok = claims["usn"].(string); !ok {
				return errMsg("Invalid username claim. Please report this.")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				log.Printf("Server shutdown failed:%+v", err)
			}
			close(serverShutdownChan)
			return loginPacket{
				username: username,
				jwt:      loginjwt,
			}
		case <-time.After(60 * time.Second):
			log.Println("Login timed out.")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				log.Printf("Server shutdown failed:%+v", err)
			}
			close(serverShutdownChan)
			return nil
		}
	}
}

// Start a callback server to receive the JWT
func startCallbackServer(server *http.Server, shutdownChan <-chan struct{}) {
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on :8521: %v\n", err)
		}
	}()

	<-shutdownChan
}

// Open the browser to the login page
func openBrowser(url string) {
	var err error

	switch os := runtime.GOOS; os {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform")
	}
	if err != nil {
		log.Fatalf("Failed to open browser: %v", err)
	}
}

func main() {
	studyhallURI := os.Getenv("STUDYHALL_URI")
	if studyhallURI == "" {
		studyhallURI = "https://studyhall.localhost"
	}
	apiURI := os.Getenv("STUDYHALL_API_URI")
	if apiURI == "" {
		apiURI = studyhallURI
	}
	p := tea.NewProgram(initialModel(studyhallURI, apiURI))

	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
