package discord

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pyraxo/haru/internal/cache"
	"github.com/pyraxo/haru/internal/config"
	"github.com/pyraxo/haru/internal/core"
	"github.com/pyraxo/haru/internal/music/coordinator"
	"github.com/pyraxo/haru/internal/music/resolver"
	"github.com/pyraxo/haru/internal/music/session"
	"github.com/pyraxo/haru/internal/storage"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// Bot is the Discord front of the playback coordinator.
type Bot struct {
	dg      *discordgo.Session
	cfg     *config.Config
	storage *storage.Storage
	voice   *VoiceBackend
	music   *coordinator.Coordinator
}

func NewBot(cfg *config.Config, store *storage.Storage, cacheStore cache.Store) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	voice := NewVoiceBackend(dg)
	res := resolver.New(resolver.NewYouTubeFetcher(cfg.YouTubeProxy), cacheStore)
	music := coordinator.New(session.NewRegistry(), res, voice, &PermissionChecker{dg: dg}, store)
	voice.SetTrackEndHandler(music.OnTrackEnd)

	b := &Bot{
		dg:      dg,
		cfg:     cfg,
		storage: store,
		voice:   voice,
		music:   music,
	}
	b.registerMusicCommands()
	return b, nil
}

// Run opens the gateway connection and blocks until the context is done.
func (b *Bot) Run(ctx context.Context) error {
	b.dg.Identify.Intents = discordgo.IntentsAllWithoutPrivileged | discordgo.IntentsGuildVoiceStates

	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onInteractionCreate)
	b.dg.AddHandler(b.onGuildCreate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Cleaning up...")
	return nil
}

// onReady is called when the bot is ready
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if !b.cfg.InitSlashCommands {
		log.Println("[INFO] Registering slash commands skipped")
		return
	}

	for _, g := range r.Guilds {
		if err := b.registerCommands(g.ID); err != nil {
			log.Printf("[ERR] Error registering slash commands for guild %s: %v", g.ID, err)
		}
	}

	log.Printf("[INFO] ✅ Bot is running on %d guild(s).", len(r.Guilds))
}

// onGuildCreate is called when the bot joins a guild
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if !b.cfg.InitSlashCommands {
		return
	}
	if err := b.registerCommands(g.Guild.ID); err != nil {
		log.Printf("[ERR] Failed to register commands for guild %s: %v", g.Guild.ID, err)
	}
}

// onInteractionCreate dispatches slash commands
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	cmdName := i.ApplicationCommandData().Name
	cmd, ok := core.GetCommand(cmdName)
	if !ok {
		log.Printf("[WARN] Unknown command: %s", cmdName)
		return
	}

	ctx := &core.SlashInteractionContext{
		Session: s,
		Event:   i,
		Storage: b.storage,
	}
	if err := cmd.Run(ctx); err != nil {
		log.Printf("[ERR] Error running slash command /%s: %v", cmdName, err)
	}
}

// registerCommands creates the wanted commands for a guild and deletes
// obsolete ones, rate limited to stay inside Discord's request limits.
func (b *Bot) registerCommands(guildID string) error {
	appID := b.dg.State.User.ID
	if appID == "" {
		user, err := b.dg.User("@me")
		if err != nil {
			return err
		}
		appID = user.ID
	}

	wanted := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range core.AllCommands() {
		if slash, ok := cmd.(core.SlashProvider); ok {
			if def := slash.SlashDefinition(); def != nil {
				wanted[def.Name] = def
			}
		}
	}

	limiter := rate.NewLimiter(rate.Every(time.Second/40), 1)

	existing, _ := b.dg.ApplicationCommands(appID, guildID)
	for _, old := range existing {
		if _, ok := wanted[old.Name]; !ok {
			log.Printf("[INFO] [%s] Deleting obsolete command: %s", guildID, old.Name)
			_ = limiter.Wait(context.Background())
			if err := b.dg.ApplicationCommandDelete(appID, guildID, old.ID); err != nil {
				log.Printf("[ERR] [%s] Failed to delete %s: %v", guildID, old.Name, err)
			}
		}
	}

	for _, def := range wanted {
		_ = limiter.Wait(context.Background())
		if _, err := b.dg.ApplicationCommandCreate(appID, guildID, def); err != nil {
			log.Printf("[ERR] [%s] Can't create command %s: %v", guildID, def.Name, err)
		}
	}

	return nil
}
