package room

import (
	"blackjack-server/pkg/playable"
	"blackjack-server/pkg/playable/blackjack"
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClient struct {
	t       *testing.T
	conn    net.Conn
	scanner *bufio.Scanner
}

func testOptions() blackjack.Options {
	opts := blackjack.DefaultOptions()
	opts.DealerDelay = 0
	return opts
}

func newTestPitBoss(t *testing.T) *PitBoss {
	p := NewPitBoss(logrus.StandardLogger())
	p.StartShift()
	t.Cleanup(p.EndShift)

	return p
}

func connect(t *testing.T, p *PitBoss) *testClient {
	t.Helper()
	return connectWithOptions(t, p, testOptions())
}

func connectWithOptions(t *testing.T, p *PitBoss, opts blackjack.Options) *testClient {
	t.Helper()

	server, client := net.Pipe()
	_ = client.SetDeadline(time.Now().Add(time.Second * 10))
	go func() {
		_ = p.Serve(server, "test", opts)
	}()

	t.Cleanup(func() {
		_ = client.Close()
	})

	return &testClient{
		t:       t,
		conn:    client,
		scanner: bufio.NewScanner(client),
	}
}

func (tc *testClient) write(s string) {
	tc.t.Helper()
	_, err := tc.conn.Write([]byte(s))
	require.NoError(tc.t, err)
}

func (tc *testClient) sendLine(s string) {
	tc.t.Helper()
	tc.write(s + "\n")
}

func (tc *testClient) send(msg map[string]interface{}) {
	tc.t.Helper()
	b, err := json.Marshal(msg)
	require.NoError(tc.t, err)
	tc.sendLine(string(b))
}

func (tc *testClient) receive() *playable.Response {
	tc.t.Helper()
	require.True(tc.t, tc.scanner.Scan(), "expected a message: %v", tc.scanner.Err())

	var res playable.Response
	require.NoError(tc.t, json.Unmarshal(tc.scanner.Bytes(), &res))
	return &res
}

func (tc *testClient) setNick(nick string) {
	tc.t.Helper()
	tc.send(map[string]interface{}{"command": "set_nick", "nick": nick})
	res := tc.receive()
	assert.Equal(tc.t, playable.TypeInfo, res.Type)
	assert.Equal(tc.t, fmt.Sprintf("Nickname set to %s. You have $10000.", nick), res.Message)
}

// bet places a bet and returns the opening game state
func (tc *testClient) bet(amount int) *playable.Response {
	tc.t.Helper()
	tc.send(map[string]interface{}{"command": "bet", "amount": amount})
	info := tc.receive()
	assert.Equal(tc.t, playable.TypeInfo, info.Type)
	assert.Equal(tc.t, fmt.Sprintf("Bet of $%d placed. Dealing cards...", amount), info.Message)

	state := tc.receive()
	assert.Equal(tc.t, playable.TypeGameState, state.Type)
	return state
}

var creditByResult = map[string]int{
	"Bust! You lose.":        0,
	"Dealer busts! You win.": 2,
	"You win!":               2,
	"Dealer wins!":           0,
	"It's a tie!":            1,
}

func assertGameOverMoney(t *testing.T, res *playable.Response, balanceAfterBet, bet int) {
	t.Helper()

	credit, ok := creditByResult[res.Result]
	if assert.True(t, ok, "unexpected result %q", res.Result) && assert.NotNil(t, res.Money) {
		assert.Equal(t, balanceAfterBet+credit*bet, *res.Money)
	}
}

func TestClient_session(t *testing.T) {
	a := assert.New(t)
	p := newTestPitBoss(t)
	tc := connect(t, p)

	// nothing works before the nickname
	tc.send(map[string]interface{}{"command": "bet", "amount": 100})
	res := tc.receive()
	a.Equal(playable.TypeError, res.Type)
	a.Equal("invalid command: set your nickname first", res.Message)

	tc.setNick("Ada")

	tc.send(map[string]interface{}{"command": "bet", "amount": 0})
	res = tc.receive()
	a.Equal(playable.TypeError, res.Type)
	a.Equal("invalid bet: bet must be greater than $0", res.Message)

	tc.send(map[string]interface{}{"command": "bet", "amount": 20000})
	res = tc.receive()
	a.Equal(playable.TypeError, res.Type)

	state := tc.bet(100)
	a.Equal(9900, *state.Money)
	a.Len(strings.Split(state.PlayerHand, " "), 2)
	a.Len(strings.Split(state.DealerHand, " "), 1)
	a.Nil(state.DealerScore)

	tc.send(map[string]interface{}{"command": "double"})
	res = tc.receive()
	a.Equal(playable.TypeError, res.Type)
	a.Equal(`invalid command: unknown command "double"`, res.Message)

	tc.send(map[string]interface{}{"command": "stay"})
	res = tc.receive()
	a.Equal(playable.TypeGameOver, res.Type)
	a.True(strings.HasPrefix(res.PlayerHand, state.PlayerHand))
	a.True(strings.HasPrefix(res.DealerHand, state.DealerHand+" "))
	a.NotNil(res.DealerScore)
	assertGameOverMoney(t, res, 9900, 100)
	money := *res.Money

	tc.send(map[string]interface{}{"command": "new_game"})
	res = tc.receive()
	a.Equal(playable.TypeInfo, res.Type)
	a.Equal(fmt.Sprintf("New game started. You have $%d. Place your bet.", money), res.Message)

	state = tc.bet(50)
	a.Equal(money-50, *state.Money)
}

func TestClient_malformedLine(t *testing.T) {
	a := assert.New(t)
	p := newTestPitBoss(t)
	tc := connect(t, p)

	tc.sendLine("this is not json")
	tc.sendLine(`{"command": "set_nick", "nick": `)
	tc.sendLine(`{"command": "bet", "amount": "lots"}`)
	tc.sendLine("")
	tc.sendLine("   ")

	// the connection is still open and still in order
	tc.setNick("Ada")
	state := tc.bet(100)
	a.Equal(9900, *state.Money)
}

func TestClient_framing(t *testing.T) {
	a := assert.New(t)
	p := newTestPitBoss(t)
	tc := connect(t, p)

	// a message split across writes
	tc.write(`{"command":"set_`)
	tc.write(`nick","nick":"Ada"}`)
	tc.write("\r\n")
	res := tc.receive()
	a.Equal("Nickname set to Ada. You have $10000.", res.Message)

	// two messages in one write are both handled, in order
	tc.write(`{"command":"bet","amount":-1}` + "\n" + `{"command":"hit"}` + "\n")
	res = tc.receive()
	a.Equal("invalid bet: bet must be greater than $0", res.Message)
	res = tc.receive()
	a.Equal("invalid command: place a bet first", res.Message)

	// a line over the limit is dropped without closing the connection
	tc.sendLine(`{"command":"set_nick","nick":"` + strings.Repeat("x", MaxLineBytes) + `"}`)
	tc.send(map[string]interface{}{"command": "new_game"})
	res = tc.receive()
	a.Equal(playable.TypeError, res.Type)
	a.Equal("invalid command: place a bet first", res.Message)
}

func TestClient_hitUntilOver(t *testing.T) {
	a := assert.New(t)
	p := newTestPitBoss(t)
	tc := connect(t, p)

	tc.setNick("Ada")
	state := tc.bet(100)
	hand := state.PlayerHand

	for {
		tc.send(map[string]interface{}{"command": "hit"})
		state = tc.receive()
		a.Equal(playable.TypeGameState, state.Type)
		a.True(strings.HasPrefix(state.PlayerHand, hand+" "))
		a.Len(strings.Split(state.DealerHand, " "), 1)
		hand = state.PlayerHand

		if *state.PlayerScore > 21 {
			break
		}
	}

	res := tc.receive()
	a.Equal(playable.TypeGameOver, res.Type)
	a.Equal("Bust! You lose.", res.Result)
	a.Equal(state.DealerHand, res.DealerHand)
	a.Nil(res.DealerScore)
	a.Equal(9900, *res.Money)

	tc.send(map[string]interface{}{"command": "hit"})
	res = tc.receive()
	a.Equal(playable.TypeError, res.Type)
}

func TestClient_independentSessions(t *testing.T) {
	a := assert.New(t)
	p := newTestPitBoss(t)
	one := connect(t, p)
	two := connect(t, p)

	one.setNick("One")
	two.setNick("Two")

	stateOne := one.bet(100)
	stateTwo := two.bet(500)
	a.Equal(9900, *stateOne.Money)
	a.Equal(9500, *stateTwo.Money)

	// player one hits until bust, player two's hand must not move
	for {
		one.send(map[string]interface{}{"command": "hit"})
		res := one.receive()
		if *res.PlayerScore > 21 {
			one.receive()
			break
		}
	}

	two.send(map[string]interface{}{"command": "stay"})
	res := two.receive()
	a.Equal(playable.TypeGameOver, res.Type)
	a.Equal(stateTwo.PlayerHand, res.PlayerHand)
	a.Equal(*stateTwo.PlayerScore, *res.PlayerScore)
	assertGameOverMoney(t, res, 9500, 500)

	one.send(map[string]interface{}{"command": "new_game"})
	a.Equal("New game started. You have $9900. Place your bet.", one.receive().Message)
}

func TestClient_writeFailure(t *testing.T) {
	server, client := net.Pipe()
	dealer, err := NewDealer(logrus.StandardLogger(), testOptions())
	require.NoError(t, err)

	c := NewClient(server, "test", dealer, logrus.StandardLogger())
	done := make(chan bool)
	go func() {
		c.Serve()
		close(done)
	}()

	// the client goes away without reading the response
	_, err = client.Write([]byte(`{"command":"set_nick","nick":"Ada"}` + "\n"))
	require.NoError(t, err)
	_ = client.Close()

	select {
	case <-done:
	case <-time.After(time.Second * 5):
		t.Fatal("expected Serve to return")
	}

	assert.Error(t, c.CloseError)
}

func TestClient_dealerDelayBlocksOnlyItsConnection(t *testing.T) {
	a := assert.New(t)
	p := newTestPitBoss(t)

	const delay = time.Millisecond * 500
	slowOpts := testOptions()
	slowOpts.DealerDelay = delay

	slow := connectWithOptions(t, p, slowOpts)
	fast := connect(t, p)
	slow.setNick("Slow")
	fast.setNick("Fast")

	// the dealer only pauses when it draws, so play until it does
	for round := 0; round < 50; round++ {
		slow.bet(10)

		start := time.Now()
		slow.send(map[string]interface{}{"command": "stay"})

		fast.bet(10)
		fast.send(map[string]interface{}{"command": "stay"})
		a.Equal(playable.TypeGameOver, fast.receive().Type)
		fastElapsed := time.Since(start)

		res := slow.receive()
		slowElapsed := time.Since(start)
		a.Equal(playable.TypeGameOver, res.Type)

		fast.send(map[string]interface{}{"command": "new_game"})
		a.Equal(playable.TypeInfo, fast.receive().Type)

		if len(strings.Split(res.DealerHand, " ")) > 2 {
			a.GreaterOrEqual(int64(slowElapsed), int64(delay))
			a.Less(int64(fastElapsed), int64(delay))
			return
		}

		slow.send(map[string]interface{}{"command": "new_game"})
		a.Equal(playable.TypeInfo, slow.receive().Type)
	}

	t.Fatal("expected the dealer to draw at least once")
}

func TestClient_newGameRepeated(t *testing.T) {
	a := assert.New(t)
	p := newTestPitBoss(t)
	tc := connect(t, p)

	tc.setNick("Ada")
	tc.bet(100)
	tc.send(map[string]interface{}{"command": "stay"})
	res := tc.receive()
	a.Equal(playable.TypeGameOver, res.Type)
	money := *res.Money

	for i := 0; i < 2; i++ {
		tc.send(map[string]interface{}{"command": "new_game"})
		res = tc.receive()
		a.Equal(playable.TypeInfo, res.Type)
		a.Equal(fmt.Sprintf("New game started. You have $%d. Place your bet.", money), res.Message)
	}
}
