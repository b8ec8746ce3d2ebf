package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/halgrim/quest-guide/pkg/gamestate"
	"github.com/halgrim/quest-guide/pkg/zone"
)

const PlaceHolderText = "Type a state command (help for a list)..."

// ConsoleUI is the BubbleTea model that runs the UI. It keeps a synthetic
// game state snapshot locally; every command edits the snapshot and reports
// it to the API, which answers with the next instruction.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	session      *SessionView
	snapshot     *gamestate.Snapshot
	step         *StepView
	log          []string
	stepViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Quest selection state
	showQuestModal bool
	quests         []string
	questMap       map[string]string
	selectedQuest  int
	loadingQuests  bool

	// Quit confirmation state
	showQuitModal bool
}

type questsLoadedMsg struct {
	quests   []string
	questMap map[string]string
	err      error
}

type sessionCreatedMsg struct {
	session *SessionView
	err     error
}

type stepMsg struct {
	step *StepView
	err  error
}

var (
	stepPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	instructionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("86")) // green

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")). // bright green
			Bold(true)

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	metStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")) // bright green

	boostableStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	unmetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	stepVp := viewport.New(50, 20)
	stepVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:         cfg,
		client:         client,
		snapshot:       gamestate.New(),
		textarea:       ta,
		stepViewport:   stepVp,
		metaViewport:   metaVp,
		showQuestModal: true,
		loadingQuests:  true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.showQuestModal {
		return m.loadQuests()
	}
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuestModal {
		return m.updateQuestModal(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.stepViewport, vpCmd = m.stepViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.writeStepContent()
		m.writeMetadata()
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m.handleCommand(input)
		}

	case stepMsg:
		m.loading = false
		if msg.err != nil {
			m.logLine(errorStyle.Render("Error: " + msg.err.Error()))
		} else {
			m.step = msg.step
		}
		m.writeStepContent()
		m.writeMetadata()
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.stepViewport, vpCmd = m.stepViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) resize() {
	stepWidth := int(float64(m.width)*0.70) - 4
	metaWidth := m.width - stepWidth - 6

	m.stepViewport.Width = stepWidth - 2
	m.stepViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(stepWidth - 4)
}

func (m *ConsoleUI) logLine(line string) {
	m.log = append(m.log, line)
	if len(m.log) > 50 {
		m.log = m.log[len(m.log)-50:]
	}
}

// writeStepContent rebuilds the left panel: the current instruction plus the
// command log, wrapped to the viewport width.
func (m *ConsoleUI) writeStepContent() {
	width := m.stepViewport.Width - 6
	if width < 10 {
		width = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("QUEST GUIDE") + "\n\n")
	if m.session != nil {
		content.WriteString(m.session.Session.QuestName + "\n\n")
	}
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	if m.step != nil {
		if m.step.Done {
			content.WriteString(doneStyle.Render("Quest complete!") + "\n\n")
		} else {
			content.WriteString(instructionStyle.Render(wordwrap.String(m.step.Instruction, width)) + "\n\n")
			for _, item := range m.step.Items {
				content.WriteString("  " + renderRequirement(item) + "\n")
			}
			if len(m.step.Items) > 0 {
				content.WriteString("\n")
			}
		}
	}

	if len(m.log) > 0 {
		content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")
		for _, line := range m.log {
			content.WriteString(wordwrap.String(line, width) + "\n")
		}
	}

	if m.loading {
		content.WriteString(loadingStyle.Render("Reporting state...") + "\n")
	}

	m.stepViewport.SetContent(content.String())
	m.stepViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SESSION") + "\n\n")

	if m.session != nil {
		content.WriteString("Session ID:\n")
		content.WriteString(m.session.Session.ID.String()[:8] + "...\n\n")
		content.WriteString("Quest:\n")
		content.WriteString(m.session.Session.QuestFile + "\n\n")
	}

	if m.step != nil {
		content.WriteString(fmt.Sprintf("Progress: %d\n\n", m.step.Progress))
		if len(m.step.Requirements) > 0 {
			content.WriteString("Requirements:\n")
			for _, r := range m.step.Requirements {
				content.WriteString(renderRequirement(r) + "\n")
			}
			content.WriteString("\n")
		}
	}

	content.WriteString(fmt.Sprintf("Position: %s\n", m.snapshot.Position))
	content.WriteString(fmt.Sprintf("Inventory: %d stack(s)\n\n", len(m.snapshot.Inventory)))

	content.WriteString("Commands:\n")
	content.WriteString("• goto x y [plane]\n")
	content.WriteString("• give id [qty]\n")
	content.WriteString("• equip id\n")
	content.WriteString("• bank id [qty]\n")
	content.WriteString("• skill name base [boosted]\n")
	content.WriteString("• varbit id value\n")
	content.WriteString("• varp id value\n")
	content.WriteString("• chat text / dialog text\n")
	content.WriteString("• npc id\n")
	content.WriteString("• drop id x y [plane]\n")
	content.WriteString("• reset, copy, help\n")
	content.WriteString("• Ctrl+C: Quit\n")

	m.metaViewport.SetContent(content.String())
}

func renderRequirement(r RequirementView) string {
	switch r.Status {
	case "met":
		return metStyle.Render("✓ " + r.Text)
	case "boostable":
		return boostableStyle.Render("~ " + r.Text)
	default:
		return unmetStyle.Render("✗ " + r.Text)
	}
}

// handleCommand parses a state command, applies it to the local snapshot and
// reports the result to the API.
func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	m.logLine(commandStyle.Render("> " + input))

	switch cmd {
	case "help":
		m.logLine("Commands edit the simulated game state; each one is")
		m.logLine("reported to the API, which resolves the next step.")
		m.writeStepContent()
		return m, nil

	case "copy":
		if m.step != nil && m.step.Instruction != "" {
			if err := clipboard.WriteAll(m.step.Instruction); err != nil {
				m.logLine(errorStyle.Render("Clipboard error: " + err.Error()))
			} else {
				m.logLine("Instruction copied to clipboard")
			}
		}
		m.writeStepContent()
		return m, nil

	case "reset":
		m.snapshot = gamestate.New()

	case "goto":
		p, err := parsePoint(args)
		if err != nil {
			return m.commandError(err)
		}
		m.snapshot.Position = p

	case "give":
		id, qty, err := parseIDQty(args)
		if err != nil {
			return m.commandError(err)
		}
		m.snapshot.Inventory = append(m.snapshot.Inventory, gamestate.ItemStack{ID: id, Quantity: qty})

	case "equip":
		if len(args) != 1 {
			return m.commandError(fmt.Errorf("usage: equip id"))
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return m.commandError(fmt.Errorf("invalid item id %q", args[0]))
		}
		m.snapshot.Equipment = append(m.snapshot.Equipment, gamestate.ItemStack{ID: id, Quantity: 1})

	case "bank":
		id, qty, err := parseIDQty(args)
		if err != nil {
			return m.commandError(err)
		}
		m.snapshot.Bank = append(m.snapshot.Bank, gamestate.ItemStack{ID: id, Quantity: qty})

	case "skill":
		if len(args) < 2 || len(args) > 3 {
			return m.commandError(fmt.Errorf("usage: skill name base [boosted]"))
		}
		base, err := strconv.Atoi(args[1])
		if err != nil {
			return m.commandError(fmt.Errorf("invalid level %q", args[1]))
		}
		boosted := base
		if len(args) == 3 {
			if boosted, err = strconv.Atoi(args[2]); err != nil {
				return m.commandError(fmt.Errorf("invalid level %q", args[2]))
			}
		}
		m.snapshot.Skills[strings.ToLower(args[0])] = gamestate.SkillLevel{Base: base, Boosted: boosted}

	case "varbit", "varp":
		if len(args) != 2 {
			return m.commandError(fmt.Errorf("usage: %s id value", cmd))
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return m.commandError(fmt.Errorf("invalid id %q", args[0]))
		}
		value, err := strconv.Atoi(args[1])
		if err != nil {
			return m.commandError(fmt.Errorf("invalid value %q", args[1]))
		}
		if cmd == "varbit" {
			m.snapshot.Varbits[id] = value
		} else {
			m.snapshot.Varplayers[id] = value
		}

	case "chat":
		m.snapshot.ChatLog = append(m.snapshot.ChatLog, strings.Join(args, " "))

	case "dialog":
		m.snapshot.DialogLog = append(m.snapshot.DialogLog, strings.Join(args, " "))

	case "npc":
		if len(args) != 1 {
			return m.commandError(fmt.Errorf("usage: npc id"))
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return m.commandError(fmt.Errorf("invalid npc id %q", args[0]))
		}
		m.snapshot.NPCs = append(m.snapshot.NPCs, gamestate.NPC{ID: id, Interacting: true})

	case "drop":
		if len(args) < 3 {
			return m.commandError(fmt.Errorf("usage: drop id x y [plane]"))
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return m.commandError(fmt.Errorf("invalid item id %q", args[0]))
		}
		p, err := parsePoint(args[1:])
		if err != nil {
			return m.commandError(err)
		}
		m.snapshot.GroundItems = append(m.snapshot.GroundItems, gamestate.GroundItem{ItemID: id, Tile: p})

	default:
		return m.commandError(fmt.Errorf("unknown command %q (try help)", cmd))
	}

	m.loading = true
	m.writeStepContent()
	return m, m.reportState()
}

func (m ConsoleUI) commandError(err error) (tea.Model, tea.Cmd) {
	m.logLine(errorStyle.Render(err.Error()))
	m.writeStepContent()
	return m, nil
}

func parsePoint(args []string) (zone.WorldPoint, error) {
	if len(args) < 2 || len(args) > 3 {
		return zone.WorldPoint{}, fmt.Errorf("expected x y [plane]")
	}
	coords := make([]int, 3)
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return zone.WorldPoint{}, fmt.Errorf("invalid coordinate %q", arg)
		}
		coords[i] = v
	}
	return zone.NewWorldPoint(coords[0], coords[1], coords[2]), nil
}

func parseIDQty(args []string) (int, int, error) {
	if len(args) < 1 || len(args) > 2 {
		return 0, 0, fmt.Errorf("expected id [qty]")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid item id %q", args[0])
	}
	qty := 1
	if len(args) == 2 {
		if qty, err = strconv.Atoi(args[1]); err != nil {
			return 0, 0, fmt.Errorf("invalid quantity %q", args[1])
		}
	}
	return id, qty, nil
}

func (m ConsoleUI) reportState() tea.Cmd {
	return func() tea.Msg {
		step, err := putState(m.client, m.config.APIBaseURL, m.session.Session.ID, m.snapshot)
		return stepMsg{step, err}
	}
}

func (m ConsoleUI) loadQuests() tea.Cmd {
	return func() tea.Msg {
		names, questMap, err := listQuests(m.client, m.config.APIBaseURL)
		return questsLoadedMsg{names, questMap, err}
	}
}

func (m ConsoleUI) createSessionForQuest(questFile string) tea.Cmd {
	return func() tea.Msg {
		view, err := createSession(m.client, m.config.APIBaseURL, questFile)
		return sessionCreatedMsg{view, err}
	}
}

func (m ConsoleUI) updateQuestModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case questsLoadedMsg:
		m.loadingQuests = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.quests = msg.quests
			m.questMap = msg.questMap
		}

	case sessionCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.session = msg.session
			m.step = &msg.session.Step
			m.showQuestModal = false
			if m.width > 0 && m.height > 0 {
				m.resize()
			}
			m.writeStepContent()
			m.writeMetadata()
			m.textarea.Focus()
			m.ready = true
		}
		return m, textarea.Blink

	case tea.KeyMsg:
		if m.loadingQuests || m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedQuest > 0 {
				m.selectedQuest--
			}
		case tea.KeyDown:
			if m.selectedQuest < len(m.quests)-1 {
				m.selectedQuest++
			}
		case tea.KeyEnter:
			if len(m.quests) > 0 {
				questName := m.quests[m.selectedQuest]
				m.loading = true
				return m, m.createSessionForQuest(m.questMap[questName])
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, m.quit()
		default:
			switch msg.String() {
			case "y", "Y":
				return m, m.quit()
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

// quit deletes the session on the server before exiting.
func (m ConsoleUI) quit() tea.Cmd {
	if m.session != nil {
		_ = deleteSession(m.client, m.config.APIBaseURL, m.session.Session.ID)
	}
	return tea.Quit
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("End this walkthrough session?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderQuestModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loadingQuests {
		content.WriteString(modalTitleStyle.Render("Loading Quests..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Fetching the quest catalog..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load quests: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else if m.loading {
		content.WriteString(modalTitleStyle.Render("Starting Session..."))
	} else {
		content.WriteString(modalTitleStyle.Render("Select a Quest"))
		content.WriteString("\n\n")

		for i, quest := range m.quests {
			if i == m.selectedQuest {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", quest)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", quest)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuestModal {
		return m.renderQuestModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	stepWidth := int(float64(m.width)*0.70) - 4
	metaWidth := m.width - stepWidth - 6

	stepPanel := stepPanelStyle.Width(stepWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.stepViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", stepWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, stepPanel, metaPanel)
}
