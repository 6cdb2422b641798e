package handler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/glizzus/goonbot/internal/generator"
)

func InstanceIDFromInteraction(i *discordgo.InteractionCreate) string {
	var customID string

	switch i.Type {
	case discordgo.InteractionMessageComponent:
		customID = i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		customID = i.ModalSubmitData().CustomID
	default:
		return ""
	}

	return InstanceIDFromCustomID(customID)
}

func InstanceIDFromCustomID(customID string) string {
	parts := strings.SplitN(customID, ":", 2)
	if len(parts) != 2 {
		return ""
	}

	return parts[1]
}

type FlowContext struct {
	InstanceID string
	State      map[string]any
}

type Node struct {
	ID      string
	Matcher func(*discordgo.InteractionCreate) bool
	Handler func(context.Context, DiscordSession, *discordgo.InteractionCreate, *FlowContext) error
	Next    []*Node
}

type Flow struct {
	ID   string
	Root *Node
}

type session struct {
	flow    *Flow
	node    *Node
	ctx     *FlowContext
	expires time.Time
}

// DefaultFlowTTL is how long a flow waits for its next interaction. Discord
// stops accepting responses to an interaction after 15 minutes.
const DefaultFlowTTL = 15 * time.Minute

type FlowManager struct {
	flowsMu *sync.RWMutex
	flows   []*Flow

	sessionsMu *sync.RWMutex
	sessions   map[string]*session

	idGenerator generator.Generator[string]
	ttl         time.Duration
	now         func() time.Time
}

func NewFlowManager(idGenerator generator.Generator[string]) *FlowManager {
	if idGenerator == nil {
		idGenerator = &generator.UUIDV4Generator{}
	}
	return &FlowManager{
		flowsMu:     &sync.RWMutex{},
		sessionsMu:  &sync.RWMutex{},
		sessions:    make(map[string]*session),
		idGenerator: idGenerator,
		ttl:         DefaultFlowTTL,
		now:         time.Now,
	}
}

// RegisterFlow adds a flow. Flows are matched in registration order.
func (fm *FlowManager) RegisterFlow(flow *Flow) {
	fm.flowsMu.Lock()
	defer fm.flowsMu.Unlock()

	for _, f := range fm.flows {
		if f.ID == flow.ID {
			panic("flow already registered")
		}
	}
	fm.flows = append(fm.flows, flow)
}

// ActiveFlows returns the number of flows waiting on a follow-up interaction.
func (fm *FlowManager) ActiveFlows() int {
	fm.sessionsMu.RLock()
	defer fm.sessionsMu.RUnlock()
	return len(fm.sessions)
}

func (fm *FlowManager) Router(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
	fm.prune()

	instanceID := InstanceIDFromInteraction(i)
	if instanceID != "" {
		fm.sessionsMu.RLock()
		session, inFlow := fm.sessions[instanceID]
		fm.sessionsMu.RUnlock()
		if inFlow {
			return fm.advance(ctx, s, i, session)
		}
	}

	return fm.initializeFlow(ctx, s, i)
}

// prune drops flows nobody followed up on.
func (fm *FlowManager) prune() {
	now := fm.now()
	fm.sessionsMu.Lock()
	defer fm.sessionsMu.Unlock()
	for id, sess := range fm.sessions {
		if now.After(sess.expires) {
			delete(fm.sessions, id)
		}
	}
}

func (fm *FlowManager) finish(instanceID string) {
	fm.sessionsMu.Lock()
	delete(fm.sessions, instanceID)
	fm.sessionsMu.Unlock()
}

func (fm *FlowManager) advance(
	ctx context.Context,
	s DiscordSession,
	i *discordgo.InteractionCreate,
	sess *session,
) error {
	if len(sess.node.Next) == 0 {
		fm.finish(sess.ctx.InstanceID)
		return nil
	}

	var nextNode *Node
	for _, n := range sess.node.Next {
		if n.Matcher(i) {
			nextNode = n
			break
		}
	}
	if nextNode == nil {
		return nil
	}

	sess.node = nextNode
	sess.expires = fm.now().Add(fm.ttl)
	if err := nextNode.Handler(ctx, s, i, sess.ctx); err != nil {
		return err
	}

	if len(nextNode.Next) == 0 {
		fm.finish(sess.ctx.InstanceID)
	}
	return nil
}

func (fm *FlowManager) initializeFlow(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
	fm.flowsMu.RLock()
	var f *Flow
	for _, flow := range fm.flows {
		if flow.Root.Matcher(i) {
			f = flow
			break
		}
	}
	fm.flowsMu.RUnlock()
	if f == nil {
		return nil
	}

	instanceID, err := fm.idGenerator.Next()
	if err != nil {
		return fmt.Errorf("failed to generate instance ID: %w", err)
	}

	flowCtx := &FlowContext{
		InstanceID: instanceID,
		State:      make(map[string]any),
	}

	// Single step flows never need to be looked up again.
	if len(f.Root.Next) > 0 {
		fm.sessionsMu.Lock()
		fm.sessions[instanceID] = &session{flow: f, node: f.Root, ctx: flowCtx, expires: fm.now().Add(fm.ttl)}
		fm.sessionsMu.Unlock()
	}

	if err := f.Root.Handler(ctx, s, i, flowCtx); err != nil {
		fm.finish(instanceID)
		return err
	}
	return nil
}

// isCommand matches an application command by name.
func isCommand(name string) func(*discordgo.InteractionCreate) bool {
	return func(i *discordgo.InteractionCreate) bool {
		if i.Type != discordgo.InteractionApplicationCommand {
			return false
		}
		return i.ApplicationCommandData().Name == name
	}
}

// isComponent matches a message component whose custom ID starts with prefix.
func isComponent(prefix string) func(*discordgo.InteractionCreate) bool {
	return func(i *discordgo.InteractionCreate) bool {
		if i.Type != discordgo.InteractionMessageComponent {
			return false
		}
		return strings.HasPrefix(i.MessageComponentData().CustomID, prefix+":")
	}
}
