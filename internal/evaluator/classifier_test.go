package evaluator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashureev/rizz-labs/internal/domain"
)

const coffeeInvite = "wanna grab coffee tomorrow?"

func TestClassifyOutcome_FriendzoneWinsRegardlessOfInterest(t *testing.T) {
	replies := []string{
		"honestly i think we should just be friends",
		"you're sweet but i see you as a friend",
		"lol ur like a brother to me",
		"welcome to the friend zone bestie",
		"sorry, i'm not interested romantically",
		"yes! coffee sounds perfect... as friends tho, you're like a sibling",
	}
	priors := []string{"", coffeeInvite, "how was your day"}

	for _, reply := range replies {
		for _, prior := range priors {
			for interest := 0.0; interest <= 10; interest++ {
				got := ClassifyOutcome(reply, prior, interest)
				assert.Equal(t, domain.OutcomeFriendzoned, got, "reply=%q prior=%q interest=%v", reply, prior, interest)
			}
		}
	}
}

func TestClassifyOutcome_StallingOverridesAgreement(t *testing.T) {
	replies := []string{
		"yes but let's talk more first",
		"whoa slow down tiger",
		"lol we just met, sounds fun tho",
		"maybe later cutie",
		"you're moving kinda fast but i like the energy",
		"hmm we'll see...",
		"definitely not lol",
	}
	for _, reply := range replies {
		assert.Equal(t, domain.OutcomeContinue, ClassifyOutcome(reply, coffeeInvite, 10), reply)
		assert.True(t, IsStalling(reply), reply)
	}
}

func TestClassifyOutcome_InterestGate(t *testing.T) {
	reply := "yes! i'd love to"

	assert.Equal(t, domain.OutcomeDateSecured, ClassifyOutcome(reply, coffeeInvite, 4))
	assert.Equal(t, domain.OutcomeDateSecured, ClassifyOutcome(reply, coffeeInvite, 9.5))
	assert.Equal(t, domain.OutcomeContinue, ClassifyOutcome(reply, coffeeInvite, 3.99))
	assert.Equal(t, domain.OutcomeContinue, ClassifyOutcome(reply, coffeeInvite, 0))
}

func TestClassifyOutcome_BareAffirmativeNeedsInvitation(t *testing.T) {
	assert.Equal(t, domain.OutcomeContinue, ClassifyOutcome("yes!", "how was your day", 10))
	assert.Equal(t, domain.OutcomeContinue, ClassifyOutcome("yes!", "", 10))
	assert.Equal(t, domain.OutcomeDateSecured, ClassifyOutcome("yes!", coffeeInvite, 10))
	assert.Equal(t, domain.OutcomeDateSecured, ClassifyOutcome("yeah 😊", coffeeInvite, 6))
	assert.Equal(t, domain.OutcomeDateSecured, ClassifyOutcome("bet", coffeeInvite, 6))
}

func TestClassifyOutcome_AgreementVariants(t *testing.T) {
	replies := []string{
		"omg yes!! coffee sounds perfect",
		"it's a date 😌",
		"i'm so down",
		"say less",
		"what time should i be ready?",
		"sounds like a plan",
		"LET’S DO IT",
		"count me in",
	}
	for _, reply := range replies {
		c := Classify(reply, coffeeInvite, 7)
		assert.Equal(t, domain.OutcomeDateSecured, c.Outcome, reply)
		assert.Equal(t, TierAgreement, c.Tier, reply)
	}
}

func TestClassifyOutcome_ApostropheVariants(t *testing.T) {
	for _, reply := range []string{"let's talk more first", "lets talk more first", "let’s talk more first"} {
		assert.True(t, IsStalling(reply), reply)
	}
	for _, prior := range []string{"let's get dinner", "lets get dinner", "let’s get dinner"} {
		assert.True(t, UserInvitedDate(prior), prior)
	}
}

func TestClassifyOutcome_DegenerateInput(t *testing.T) {
	assert.Equal(t, domain.OutcomeContinue, ClassifyOutcome("", coffeeInvite, 10))
	assert.Equal(t, domain.OutcomeContinue, ClassifyOutcome("   \n\t", coffeeInvite, 10))
	assert.Equal(t, domain.OutcomeContinue, ClassifyOutcome("!!! ??? 123", "", 10))
	assert.NotPanics(t, func() {
		ClassifyOutcome(strings.Repeat("so like ", 20000), strings.Repeat("a", 100000), 5)
	})
}

func TestUserInvitedDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"activity and invite phrase", "would you like to get dinner friday", true},
		{"activity and question mark", "coffee sometime?", true},
		{"direct idiom", "can i ask you out", true},
		{"see you tonight", "see you tonight then", true},
		{"hang out", "should we hang out this weekend", true},
		{"invite phrase without activity", "wanna know a secret", false},
		{"question without activity", "what's your favorite color?", false},
		{"activity without invite", "i had coffee this morning", false},
		{"favorite food question", "what's your favorite food?", false},
		{"show is not an outing", "can you show me your playlist?", false},
		{"park small talk", "do you like to walk your dog at the park?", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserInvitedDate(tt.text))
		})
	}
}

func TestClassifyOutcome_DeclinesWithAgreementWords(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"taken", "i'd love to but i have a boyfriend"},
		{"apology", "sounds fun but i can't, sorry"},
		{"sorry first", "sorry, i really cannot this week"},
		{"negated want", "i definitely do not want to go out with you"},
		{"dont want", "absolutely dont want to lol"},
		{"busy", "that sounds great but i'm busy"},
		{"relationship", "haha yes you're cute but i'm seeing someone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.reply, coffeeInvite, 6)
			assert.Equal(t, domain.OutcomeContinue, c.Outcome)
			assert.Equal(t, TierStalling, c.Tier)
		})
	}
}

func TestClassifyOutcome_SmallTalkIsNotAnInvitation(t *testing.T) {
	tests := []struct {
		prior string
		reply string
	}{
		{"what's your favorite food?", "definitely sushi lol"},
		{"can you show me your playlist?", "yes!"},
		{"do you like to walk your dog at the park?", "sure"},
	}
	for _, tt := range tests {
		t.Run(tt.prior, func(t *testing.T) {
			c := Classify(tt.reply, tt.prior, 8)
			assert.Equal(t, domain.OutcomeContinue, c.Outcome)
			assert.False(t, c.Invited)
		})
	}
}

func TestClassifyOutcome_PhrasingEdgeCases(t *testing.T) {
	assert.Equal(t, domain.OutcomeFriendzoned, ClassifyOutcome("omg you've been friend-zoned lol", coffeeInvite, 9))
	assert.Equal(t, domain.OutcomeFriendzoned, ClassifyOutcome("welcome to the friendzone", "", 9))
	assert.Equal(t, domain.OutcomeDateSecured, ClassifyOutcome("why not tonight? i'm down", coffeeInvite, 6))
	assert.False(t, IsStalling("why not tonight"))
	assert.True(t, IsStalling("not tonight"))
	assert.True(t, IsStalling("why not tonight? actually not tonight, sorry"))
}

func TestClassify_Deterministic(t *testing.T) {
	first := Classify("yes! it's a date", coffeeInvite, 5)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Classify("yes! it's a date", coffeeInvite, 5))
	}
}
