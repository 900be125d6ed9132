package trader

import (
	"context"
	"fmt"

	"optionbuyer/config"
	"optionbuyer/internal/broker"
	"optionbuyer/internal/journal"
	"optionbuyer/internal/metrics"
	"optionbuyer/internal/pricefeed"
	"optionbuyer/internal/session"
	"optionbuyer/internal/strategy"
	"optionbuyer/pkg/shoonya"
	"optionbuyer/pkg/storage/postgres"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StartTrader wires the Shoonya client, order journal, optional price feed and
// metrics endpoint, then runs the trading loop until ctx is cancelled.
func StartTrader(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	creds, err := config.LoadCredentials(cfg.Credentials, cfg.Environment)
	if err != nil {
		return err
	}

	// Order journal: PostgreSQL when enabled, otherwise in memory
	var j journal.Journal = journal.NewMemoryJournal()
	if cfg.Postgres.Enabled {
		postgresClient, err := postgres.InitializeAndMigrateOrderRecord(cfg.Postgres, cfg.Environment, cfg.Postgres.CreateDB)
		if err != nil {
			return fmt.Errorf("failed to connect to DB: %w", err)
		}
		pj := journal.NewPostgresJournal(postgresClient)
		defer pj.Close()
		j = pj
	}

	if cfg.Metrics.Port > 0 {
		metrics.StartServer(ctx, cfg.Metrics.Port, logger)
	}

	restClient := shoonya.NewRESTClient(cfg.Shoonya.REST.BaseURL, cfg.Shoonya.REST.Timeout)
	b := broker.NewShoonya(restClient)

	s := cfg.Strategy
	interval := decimal.NewFromInt(s.StrikeInterval)

	opts := Options{
		StrikeInterval: interval,
		PollInterval:   s.PollInterval,
	}

	var prices strategy.PriceSource
	if s.QuoteSource == config.QuoteSourceWS {
		store := pricefeed.NewPriceStore(cfg.Shoonya.WS.Timeout)
		prices = store

		// the feed authenticates with the session token, so it starts after login
		opts.OnAuthenticated = func(ctx context.Context) {
			startFeed(ctx, cfg, restClient, store, logger)
		}
	}

	fetcher := strategy.NewFetcher(b, strategy.FetcherConfig{
		IndexExchange:  s.IndexExchange,
		IndexToken:     s.IndexToken,
		OptionExchange: s.OptionExchange,
		OptionSymbol:   s.OptionSymbol,
		ChainCount:     s.ChainCount,
		StrikeInterval: interval,
	}, prices, logger)

	submitter := strategy.NewSubmitter(b, strategy.SubmitterConfig{
		Exchange: s.OrderExchange,
		Product:  s.Product,
		Quantity: s.Quantity,
		Remarks:  s.Remarks,
	}, j, logger)

	sess := session.NewManager(b, ToBrokerCredentials(creds), logger)

	return New(sess, fetcher, submitter, opts, logger).Run(ctx)
}

// startFeed subscribes to the index touchline. A failed connect leaves the
// fetcher quoting over REST.
func startFeed(ctx context.Context, cfg *config.Config, restClient *shoonya.RESTClient,
	store *pricefeed.MemoryPriceStore, logger *zap.Logger) {
	uid, actid, token := restClient.Session()

	wsClient := shoonya.NewWSClient(cfg.Shoonya.WS.URL, cfg.Shoonya.WS.ReconnectDelay, logger)
	wsClient.SetMessageHandler(pricefeed.MakeMessageHandler(logger, store))

	topics := []string{shoonya.TouchlineTopic(cfg.Strategy.IndexExchange, cfg.Strategy.IndexToken)}
	session := shoonya.WSSession{UserID: uid, AccountID: actid, UserToken: token}
	if err := wsClient.Connect(ctx, session, topics); err != nil {
		logger.Warn("price feed unavailable, falling back to REST quotes", zap.Error(err))
		return
	}
	go wsClient.Listen(ctx) // explicitly start listener
}

// ToBrokerCredentials maps the credential file fields onto broker login fields.
func ToBrokerCredentials(c *config.Credentials) broker.Credentials {
	return broker.Credentials{
		UserID:     c.User,
		Password:   c.Pwd,
		Factor2:    c.Factor2,
		VendorCode: c.VC,
		APIKey:     c.APIKey,
		IMEI:       c.IMEI,
	}
}
