package bot

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"tycoonbot/internal/game"
	"tycoonbot/internal/logger"
	"tycoonbot/internal/service"
	"tycoonbot/internal/storage"

	"gopkg.in/telebot.v3"
)

// formatMoney formats an amount in the game currency
func formatMoney(amount float64) string {
	return fmt.Sprintf("$%.0f", amount)
}

// escapeMarkdown escapes special characters for Telegram Markdown mode
func escapeMarkdown(s string) string {
	escaped := s
	escaped = strings.ReplaceAll(escaped, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "*", `\*`)
	escaped = strings.ReplaceAll(escaped, "_", `\_`)
	escaped = strings.ReplaceAll(escaped, "`", "\\`")
	escaped = strings.ReplaceAll(escaped, "[", `\[`)
	escaped = strings.ReplaceAll(escaped, "]", `\]`)
	return escaped
}

// sendUsage replies with a one-line usage hint
func sendUsage(c telebot.Context, usage string) error {
	return c.Send("Usage: " + usage)
}

// friendlyError turns service errors into a player-facing message. Internal
// failures are masked behind a generic apology.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrIneligible),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrStateConflict):
		return "❌ " + err.Error()
	default:
		return "Something went wrong. Please try again."
	}
}

// StartBot initializes and starts the Telegram bot
func StartBot() {
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN not set")
	}

	b, err := telebot.NewBot(telebot.Settings{
		Token: botToken,
		Poller: &telebot.LongPoller{
			Timeout: 10,
		},
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	catalog := game.DefaultCatalog()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	businessService := service.NewBusinessService(catalog)
	loanService := service.NewLoanService()
	investmentService := service.NewInvestmentService(rng)
	productionService := service.NewProductionService(catalog, rng)
	pvpService := service.NewPvPService(rng)
	progressionService := service.NewProgressionService(catalog)

	// requirePlayer loads the caller's player row or prompts /start
	requirePlayer := func(c telebot.Context) (*storage.Player, error) {
		userID := c.Sender().ID
		player, err := storage.GetPlayer(userID)
		if err != nil {
			logger.Debug(userID, "error", fmt.Sprintf("failed to get player: %v", err))
			return nil, c.Send("Error retrieving your data. Please try again.")
		}
		if player == nil {
			return nil, c.Send("You don't have a company yet. Use /start to found one!")
		}
		return player, nil
	}

	b.Handle("/start", func(c telebot.Context) error {
		userID := c.Sender().ID
		logger.Debug(userID, "command_start", fmt.Sprintf("username=%s first_name=%s", c.Sender().Username, c.Sender().FirstName))

		player, err := storage.GetPlayer(userID)
		if err != nil {
			logger.Debug(userID, "error", fmt.Sprintf("failed to get player: %v", err))
			return c.Send("Error retrieving your data. Please try again.")
		}
		if player == nil {
			player, err = storage.CreatePlayer(userID, c.Sender().Username, c.Sender().FirstName)
			if err != nil {
				logger.Debug(userID, "error", fmt.Sprintf("failed to create player: %v", err))
				return c.Send("Error creating your company. Please try again.")
			}
			logger.Debug(userID, "player_created", fmt.Sprintf("welcome_bonus=%.0f", storage.StartingBalance))
		}

		welcomeMsg := fmt.Sprintf("Welcome to Business Tycoon! 🏙\n\nHi, %s! Your starting capital is %s.\n\nBuy a business with /shop and /buy, collect income with /daily, and check /help for everything else.",
			player.FirstName, formatMoney(player.Balance))
		logger.Debug(userID, "welcome_sent", fmt.Sprintf("balance=%.0f", player.Balance))
		return c.Send(welcomeMsg)
	})

	b.Handle("/help", func(c telebot.Context) error {
		logger.Debug(c.Sender().ID, "command_help", "")
		helpText := "📚 *Available Commands*\n\n" +
			"/start - Found your company\n" +
			"/balance - Check your balance\n" +
			"/me - Profile, level and achievements\n" +
			"/shop - Business types and improvements for sale\n" +
			"/buy <type> <name> - Buy a business\n" +
			"/business - List your businesses\n" +
			"/improve <business\\_id> <improvement> - Buy an improvement\n" +
			"/sell <business\\_id> - Sell a business\n" +
			"/daily - Collect daily income (once per day)\n" +
			"/loan <amount> <days> - Take a loan\n" +
			"/loans - Your active loans\n" +
			"/repay <loan\\_id> <amount> - Repay a loan\n" +
			"/invest <strategy> <amount> - Open an investment\n" +
			"/portfolio - Your open investments\n" +
			"/claim <investment\\_id> - Claim a matured investment\n" +
			"/withdraw <investment\\_id> - Withdraw early (5% penalty)\n" +
			"/produce <business\\_id> <job> - Start a production run\n" +
			"/collect <production\\_id> - Collect a finished run\n" +
			"/fight <user\\_id> <bet> - Challenge another player\n" +
			"/top - Wealth leaderboard\n" +
			"/pvptop - Combat leaderboard"
		return c.Send(helpText, &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	b.Handle("/balance", func(c telebot.Context) error {
		userID := c.Sender().ID
		logger.Debug(userID, "command_balance", "")

		player, err := requirePlayer(c)
		if player == nil {
			return err
		}

		balanceText := fmt.Sprintf("💰 *Your Balance*\n\n"+
			"Balance: %s\n"+
			"Total income: %s\n"+
			"Total expenses: %s",
			formatMoney(player.Balance), formatMoney(player.TotalIncome), formatMoney(player.TotalExpenses))
		logger.Debug(userID, "balance_displayed", fmt.Sprintf("balance=%.0f", player.Balance))
		return c.Send(balanceText, &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	b.Handle("/me", func(c telebot.Context) error {
		userID := c.Sender().ID
		logger.Debug(userID, "command_me", "")

		player, err := requirePlayer(c)
		if player == nil {
			return err
		}

		profileText := fmt.Sprintf("👤 *Your Profile*\n\n"+
			"Name: %s\n"+
			"Balance: %s\n"+
			"Level: %d (%d / %d XP)\n"+
			"Popularity: %.1f\n"+
			"Founded: %s",
			escapeMarkdown(player.FirstName),
			formatMoney(player.Balance),
			player.Level, player.Experience, game.RequiredExperience(player.Level),
			player.Popularity,
			player.CreatedAt.Format("January 2, 2006"))

		achievements, err := storage.GetAchievements(userID)
		if err != nil {
			logger.Debug(userID, "error", fmt.Sprintf("failed to get achievements: %v", err))
			achievements = nil
		}
		if len(achievements) > 0 {
			profileText += "\n\n🏆 *Achievements*\n"
			for _, a := range achievements {
				profileText += fmt.Sprintf("\n• %s — %s", escapeMarkdown(a.Title), escapeMarkdown(a.Description))
			}
		}

		profile, err := storage.GetPvPProfile(userID)
		if err == nil && profile != nil {
			profileText += fmt.Sprintf("\n\n⚔️ *Combat*\n\nRating: %.0f\nWins: %d | Losses: %d | Streak: %d",
				profile.Rating, profile.Wins, profile.Losses, profile.Streak)
		}

		logger.Debug(userID, "profile_displayed", fmt.Sprintf("balance=%.0f level=%d", player.Balance, player.Level))
		return c.Send(profileText, &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	b.Handle("/shop", func(c telebot.Context) error {
		logger.Debug(c.Sender().ID, "command_shop", "")

		codes := make([]string, 0, len(catalog.BusinessTypes))
		for code := range catalog.BusinessTypes {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		shopText := "🏪 *Businesses for Sale*\n"
		for _, code := range codes {
			bt := catalog.BusinessTypes[code]
			shopText += fmt.Sprintf("\n%s *%s* (`%s`)\n   Price: %s | Income: %s/day | Expenses: %s/day\n",
				bt.Emoji, escapeMarkdown(bt.Name), code,
				formatMoney(bt.BaseExpenses*10), formatMoney(bt.BaseIncome), formatMoney(bt.BaseExpenses))
		}

		impCodes := make([]string, 0, len(catalog.Improvements))
		for code := range catalog.Improvements {
			impCodes = append(impCodes, code)
		}
		sort.Strings(impCodes)

		shopText += "\n🔧 *Improvements*\n"
		for _, code := range impCodes {
			imp := catalog.Improvements[code]
			shopText += fmt.Sprintf("\n*%s* (`%s`) — %s\n   %s\n",
				escapeMarkdown(imp.Name), code, formatMoney(imp.Cost), escapeMarkdown(imp.Description))
		}
		shopText += "\nBuy with /buy <type> <name>, improve with /improve <business\\_id> <improvement>."

		return c.Send(shopText, &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	b.Handle("/buy", func(c telebot.Context) error {
		userID := c.Sender().ID
		args := c.Args()
		logger.Debug(userID, "command_buy", strings.Join(args, " "))

		if len(args) < 2 {
			return sendUsage(c, "/buy <type> <name>")
		}
		typeCode := args[0]
		name := strings.Join(args[1:], " ")

		businessID, cost, err := businessService.Buy(userID, typeCode, name)
		if err != nil {
			logger.Debug(userID, "buy_failed", fmt.Sprintf("type=%s error=%s", typeCode, err.Error()))
			return c.Send(friendlyError(err))
		}

		return c.Send(fmt.Sprintf("🎉 You bought *%s* for %s! Business #%d is open.",
			escapeMarkdown(name), formatMoney(cost), businessID), &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	b.Handle("/business", func(c telebot.Context) error {
		userID := c.Sender().ID
		logger.Debug(userID, "command_business", "")

		player, err := requirePlayer(c)
		if player == nil {
			return err
		}

		businesses, err := storage.GetPlayerBusinesses(userID)
		if err != nil {
			logger.Debug(userID, "error", fmt.Sprintf("failed to list businesses: %v", err))
			return c.Send("Error retrieving your businesses. Please try again.")
		}
		if len(businesses) == 0 {
			return c.Send("🏪 You don't own any businesses yet. Check /shop and /buy one!")
		}

		listText := fmt.Sprintf("🏢 *Your Businesses* (%d)\n", len(businesses))
		for _, bus := range businesses {
			income := catalog.DailyIncome(bus.Income, bus.Improvements)
			expenses := catalog.DailyExpenses(bus.Expenses, bus.StaffSalary, bus.Improvements)
			listText += fmt.Sprintf("\n*#%d* %s (%s)\n   Income: %s/day | Expenses: %s/day\n   Improvements: %d\n",
				bus.ID, escapeMarkdown(bus.Name), bus.BusinessType,
				formatMoney(income), formatMoney(expenses), len(bus.Improvements))
		}

		return c.Send(listText, &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	b.Handle("/improve", func(c telebot.Context) error {
		userID := c.Sender().ID
		args := c.Args()
		logger.Debug(userID, "command_improve", strings.Join(args, " "))

		if len(args) != 2 {
			return sendUsage(c, "/improve <business_id> <improvement>")
		}
		businessID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("❌ Invalid business ID.")
		}

		if err := businessService.Improve(userID, businessID, args[1]); err != nil {
			logger.Debug(userID, "improve_failed", fmt.Sprintf("business=%d error=%s", businessID, err.Error()))
			return c.Send(friendlyError(err))
		}

		return c.Send(fmt.Sprintf("🔧 Improvement installed on business #%d!", businessID))
	})

	b.Handle("/sell", func(c telebot.Context) error {
		userID := c.Sender().ID
		args := c.Args()
		logger.Debug(userID, "command_sell", strings.Join(args, " "))

		if len(args) != 1 {
			return sendUsage(c, "/sell <business_id>")
		}
		businessID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("❌ Invalid business ID.")
		}

		value, err := businessService.Sell(userID, businessID)
		if err != nil {
			logger.Debug(userID, "sell_failed", fmt.Sprintf("business=%d error=%s", businessID, err.Error()))
			return c.Send(friendlyError(err))
		}

		return c.Send(fmt.Sprintf("💸 Business #%d sold for %s.", businessID, formatMoney(value)))
	})

	b.Handle("/daily", func(c telebot.Context) error {
		userID := c.Sender().ID
		logger.Debug(userID, "command_daily", "")

		result, err := progressionService.ApplyDailyProgress(userID)
		if err != nil {
			logger.Debug(userID, "daily_failed", "error="+err.Error())
			return c.Send(friendlyError(err))
		}

		dailyText := fmt.Sprintf("📆 *Daily Report*\n\n"+
			"Income: %s\n"+
			"Expenses: %s\n"+
			"Net: %s\n"+
			"Experience: +%d XP",
			formatMoney(result.Progress.TotalIncome),
			formatMoney(result.Progress.TotalExpenses),
			formatMoney(result.Progress.NetIncome),
			result.Progress.Experience)
		if result.LevelUp != nil {
			dailyText += fmt.Sprintf("\n\n⭐️ *Level up!* You are now level %d.\nBonus: %s and +%.1f popularity.",
				result.LevelUp.NewLevel, formatMoney(result.LevelUp.BalanceBonus), result.LevelUp.PopularityBonus)
		}
		for _, spec := range result.Awarded {
			dailyText += fmt.Sprintf("\n\n🏆 *Achievement unlocked:* %s", escapeMarkdown(spec.Title))
		}

		return c.Send(dailyText, &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	b.Handle("/loan", func(c telebot.Context) error {
		userID := c.Sender().ID
		args := c.Args()
		logger.Debug(userID, "command_loan", strings.Join(args, " "))

		if len(args) != 2 {
			return sendUsage(c, "/loan <amount> <days>")
		}
		amount, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return c.Send("❌ Invalid amount.")
		}
		termDays, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return c.Send("❌ Invalid term.")
		}

		issued, err := loanService.Issue(userID, amount, termDays)
		if err != nil {
			logger.Debug(userID, "loan_failed", "error="+err.Error())
			return c.Send(friendlyError(err))
		}

		return c.Send(fmt.Sprintf("🏦 *Loan #%d approved*\n\n"+
			"Principal: %s\n"+
			"Rate: %.1f%%/day over %d days\n"+
			"Projected interest: %s\n\n"+
			"Repay with /repay %d <amount>.",
			issued.LoanID, formatMoney(issued.Amount), issued.InterestRate*100, issued.TermDays,
			formatMoney(issued.TotalInterest), issued.LoanID), &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	b.Handle("/loans", func(c telebot.Context) error {
		userID := c.Sender().ID
		logger.Debug(userID, "command_loans", "")

		loans, err := loanService.ActiveLoans(userID)
		if err != nil {
			logger.Debug(userID, "error", "error="+err.Error())
			return c.Send("Error retrieving your loans. Please try again.")
		}
		if len(loans) == 0 {
			return c.Send("🏦 You have no active loans.")
		}

		loansText := fmt.Sprintf("🏦 *Active Loans* (%d)\n", len(loans))
		for _, loan := range loans {
			loansText += fmt.Sprintf("\n*#%d* %s at %.1f%%/day\n   Remaining: %s | Due: %s\n",
				loan.ID, formatMoney(loan.Amount), loan.InterestRate*100,
				formatMoney(loan.Remaining), loan.DueDate.Format("Jan 2"))
		}

		return c.Send(loansText, &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	b.Handle("/repay", func(c telebot.Context) error {
		userID := c.Sender().ID
		args := c.Args()
		logger.Debug(userID, "command_repay", strings.Join(args, " "))

		if len(args) != 2 {
			return sendUsage(c, "/repay <loan_id> <amount>")
		}
		loanID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("❌ Invalid loan ID.")
		}
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return c.Send("❌ Invalid amount.")
		}

		paid, remaining, err := loanService.Repay(userID, loanID, amount)
		if err != nil {
			logger.Debug(userID, "repay_failed", fmt.Sprintf("loan=%d error=%s", loanID, err.Error()))
			return c.Send(friendlyError(err))
		}

		if remaining == 0 {
			return c.Send(fmt.Sprintf("✅ Loan #%d fully repaid (%s). Debt free!", loanID, formatMoney(paid)))
		}
		return c.Send(fmt.Sprintf("💵 Paid %s on loan #%d. Remaining: %s.", formatMoney(paid), loanID, formatMoney(remaining)))
	})

	b.Handle("/invest", func(c telebot.Context) error {
		userID := c.Sender().ID
		args := c.Args()
		logger.Debug(userID, "command_invest", strings.Join(args, " "))

		if len(args) != 2 {
			strategyText := "📈 *Investment Strategies*\n"
			for _, strat := range investmentService.Strategies() {
				strategyText += fmt.Sprintf("\n`%s` — %.0f%% expected, %.0f%% volatility, matures in %d days",
					strat.Code, strat.ExpectedReturn*100, strat.Volatility*100, strat.MatureDays)
			}
			strategyText += "\n\nUsage: /invest <strategy> <amount>"
			return c.Send(strategyText, &telebot.SendOptions{
				ParseMode: telebot.ModeMarkdown,
			})
		}
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return c.Send("❌ Invalid amount.")
		}

		id, err := investmentService.Place(userID, args[0], amount)
		if err != nil {
			logger.Debug(userID, "invest_failed", "error="+err.Error())
			return c.Send(friendlyError(err))
		}

		return c.Send(fmt.Sprintf("📈 Investment #%d opened: %s in the %s strategy.", id, formatMoney(amount), args[0]))
	})

	b.Handle("/portfolio", func(c telebot.Context) error {
		userID := c.Sender().ID
		logger.Debug(userID, "command_portfolio", "")

		investments, err := investmentService.OpenInvestments(userID)
		if err != nil {
			logger.Debug(userID, "error", "error="+err.Error())
			return c.Send("Error retrieving your portfolio. Please try again.")
		}
		if len(investments) == 0 {
			return c.Send("📈 Your portfolio is empty. Open a position with /invest!")
		}

		portfolioText := fmt.Sprintf("📈 *Your Portfolio* (%d)\n", len(investments))
		for _, inv := range investments {
			statusNote := fmt.Sprintf("matures %s", inv.MaturesAt.Format("Jan 2"))
			if inv.Status == storage.InvestmentStatusMatured {
				statusNote = "matured — /claim " + strconv.FormatInt(inv.ID, 10)
			}
			portfolioText += fmt.Sprintf("\n*#%d* %s: %s → %s\n   %s\n",
				inv.ID, inv.Strategy, formatMoney(inv.Amount), formatMoney(inv.CurrentValue), statusNote)
		}

		return c.Send(portfolioText, &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	b.Handle("/claim", func(c telebot.Context) error {
		userID := c.Sender().ID
		args := c.Args()
		logger.Debug(userID, "command_claim", strings.Join(args, " "))

		if len(args) != 1 {
			return sendUsage(c, "/claim <investment_id>")
		}
		investmentID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("❌ Invalid investment ID.")
		}

		value, err := investmentService.Claim(userID, investmentID)
		if err != nil {
			logger.Debug(userID, "claim_failed", fmt.Sprintf("investment=%d error=%s", investmentID, err.Error()))
			return c.Send(friendlyError(err))
		}

		return c.Send(fmt.Sprintf("💰 Investment #%d paid out %s!", investmentID, formatMoney(value)))
	})

	b.Handle("/withdraw", func(c telebot.Context) error {
		userID := c.Sender().ID
		args := c.Args()
		logger.Debug(userID, "command_withdraw", strings.Join(args, " "))

		if len(args) != 1 {
			return sendUsage(c, "/withdraw <investment_id>")
		}
		investmentID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("❌ Invalid investment ID.")
		}

		payout, penalized, err := investmentService.Withdraw(userID, investmentID)
		if err != nil {
			logger.Debug(userID, "withdraw_failed", fmt.Sprintf("investment=%d error=%s", investmentID, err.Error()))
			return c.Send(friendlyError(err))
		}

		if penalized {
			return c.Send(fmt.Sprintf("💵 Withdrew %s from investment #%d (early exit penalty applied).", formatMoney(payout), investmentID))
		}
		return c.Send(fmt.Sprintf("💵 Withdrew %s from investment #%d.", formatMoney(payout), investmentID))
	})

	b.Handle("/produce", func(c telebot.Context) error {
		userID := c.Sender().ID
		args := c.Args()
		logger.Debug(userID, "command_produce", strings.Join(args, " "))

		if len(args) != 2 {
			jobCodes := make([]string, 0, len(catalog.ProductionJobs))
			for code := range catalog.ProductionJobs {
				jobCodes = append(jobCodes, code)
			}
			sort.Strings(jobCodes)

			jobsText := "🏭 *Production Jobs*\n"
			for _, code := range jobCodes {
				job := catalog.ProductionJobs[code]
				jobsText += fmt.Sprintf("\n`%s` — %s (%s, %d min)", code, escapeMarkdown(job.Name), job.ProdType, job.DurationMinutes)
			}
			jobsText += "\n\nUsage: /produce <business\\_id> <job>"
			return c.Send(jobsText, &telebot.SendOptions{
				ParseMode: telebot.ModeMarkdown,
			})
		}
		businessID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("❌ Invalid business ID.")
		}

		id, err := productionService.Start(userID, businessID, args[1])
		if err != nil {
			logger.Debug(userID, "produce_failed", fmt.Sprintf("business=%d error=%s", businessID, err.Error()))
			return c.Send(friendlyError(err))
		}

		job, _ := catalog.ProductionJob(args[1])
		return c.Send(fmt.Sprintf("🏭 Production #%d started: %s. Ready in %d minutes — /collect %d.",
			id, job.Name, job.DurationMinutes, id))
	})

	b.Handle("/collect", func(c telebot.Context) error {
		userID := c.Sender().ID
		args := c.Args()
		logger.Debug(userID, "command_collect", strings.Join(args, " "))

		if len(args) != 1 {
			return sendUsage(c, "/collect <production_id>")
		}
		productionID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("❌ Invalid production ID.")
		}

		reward, err := productionService.Collect(userID, productionID)
		if err != nil {
			logger.Debug(userID, "collect_failed", fmt.Sprintf("production=%d error=%s", productionID, err.Error()))
			return c.Send(friendlyError(err))
		}

		if reward < 0 {
			return c.Send(fmt.Sprintf("💥 Production #%d failed and cost you %s. Better luck next run!",
				productionID, formatMoney(-reward)))
		}
		return c.Send(fmt.Sprintf("📦 Production #%d collected: %s!", productionID, formatMoney(reward)))
	})

	b.Handle("/fight", func(c telebot.Context) error {
		userID := c.Sender().ID
		args := c.Args()
		logger.Debug(userID, "command_fight", strings.Join(args, " "))

		if len(args) != 2 {
			return sendUsage(c, "/fight <user_id> <bet>")
		}
		opponentID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("❌ Invalid opponent ID.")
		}
		bet, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return c.Send("❌ Invalid bet.")
		}

		result, err := pvpService.Fight(userID, opponentID, bet)
		if err != nil {
			logger.Debug(userID, "fight_failed", fmt.Sprintf("opponent=%d error=%s", opponentID, err.Error()))
			return c.Send(friendlyError(err))
		}

		switch result.Outcome {
		case game.OutcomeDraw:
			return c.Send(fmt.Sprintf("🤝 *Draw!* Powers %.0f vs %.0f — nobody loses a cent.",
				result.ChallengerPower, result.OpponentPower), &telebot.SendOptions{
				ParseMode: telebot.ModeMarkdown,
			})
		case game.OutcomeWin:
			return c.Send(fmt.Sprintf("⚔️ *Victory!* You beat player %d (%.0f vs %.0f) and won %s.\nYour rating: %.0f",
				opponentID, result.ChallengerPower, result.OpponentPower, formatMoney(result.Bet), result.WinnerRating), &telebot.SendOptions{
				ParseMode: telebot.ModeMarkdown,
			})
		default:
			return c.Send(fmt.Sprintf("💀 *Defeat.* Player %d beat you (%.0f vs %.0f); you lost %s.\nYour rating: %.0f",
				opponentID, result.OpponentPower, result.ChallengerPower, formatMoney(result.Bet), result.LoserRating), &telebot.SendOptions{
				ParseMode: telebot.ModeMarkdown,
			})
		}
	})

	b.Handle("/top", func(c telebot.Context) error {
		logger.Debug(c.Sender().ID, "command_top", "")

		top, err := storage.GetTopPlayers(10)
		if err != nil {
			logger.Debug(0, "error", "error="+err.Error())
			return c.Send("Error retrieving the leaderboard. Please try again.")
		}
		if len(top) == 0 {
			return c.Send("🏆 Nobody on the leaderboard yet. Be the first!")
		}

		topText := "🏆 *Richest Players*\n"
		for _, rank := range top {
			topText += fmt.Sprintf("\n%d. %s — %s (level %d)",
				rank.Rank, escapeMarkdown(rank.FirstName), formatMoney(rank.Balance), rank.Level)
		}
		return c.Send(topText, &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	b.Handle("/pvptop", func(c telebot.Context) error {
		logger.Debug(c.Sender().ID, "command_pvptop", "")

		top, err := pvpService.Top(10)
		if err != nil {
			logger.Debug(0, "error", "error="+err.Error())
			return c.Send("Error retrieving the leaderboard. Please try again.")
		}
		if len(top) == 0 {
			return c.Send("⚔️ No fights recorded yet. Start one with /fight!")
		}

		topText := "⚔️ *Top Fighters*\n"
		for _, rank := range top {
			topText += fmt.Sprintf("\n%d. %s — %.0f (%dW/%dL)",
				rank.Rank, escapeMarkdown(rank.FirstName), rank.Rating, rank.Wins, rank.Losses)
		}
		return c.Send(topText, &telebot.SendOptions{
			ParseMode: telebot.ModeMarkdown,
		})
	})

	log.Println("Bot started. Use /start command to test.")

	b.Start()
}
