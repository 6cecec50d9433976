// Package game implements the blackjack rules engine: hands, the player's
// balance and the round state machine.
//
// The main type is Round, which takes a bet, deals from a cards.Shoe,
// applies the player's actions and settles every hand against the dealer.
//
// # Basic Usage
//
//	shoe, _ := cards.NewShoe(6, randutil.New(42))
//	player := game.NewPlayer("Alice", 50000)
//	r := game.NewRound(shoe, player)
//	if err := r.Deal(1000); err != nil {
//	    return err
//	}
//	for !r.Done() {
//	    r.Stand()
//	}
//	for _, res := range r.Results() {
//	    fmt.Println(res)
//	}
//
// # Deterministic Testing
//
// Stack the shoe so cards come out in a known order (player, dealer, player,
// dealer, then hits) and inject a mock clock for event timestamps:
//
//	shoe := cards.NewShoeFromCards(cards.MustParseCards("Th9cAsKh")...)
//	r := game.NewRound(shoe, player, game.WithClock(quartz.NewMock(t)))
//
// # Money
//
// Amounts are integer cents. The bet is debited at the deal, doubles and
// splits debit again when taken, a surrender refunds half the bet at once and
// settlement credits payouts that include the returned stake. Nothing is
// reverted when a round aborts.
package game
