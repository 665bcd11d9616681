package evaluator

import (
	"regexp"
	"strings"
)

// Pattern libraries are compiled once and never mutated. Every pattern runs
// against normalized text: lower case with typographic apostrophes folded to '.

var friendzonePatterns = compileAll(
	`\bjust (?:be |being |stay |staying )?friends\b`,
	`\b(?:stay|be|remain|better off as|better as|keep it as) (?:just )?friends\b`,
	`\bfriend[- ]?zone(?:d)?\b`,
	`\b(?:like|as) (?:a|my|your) (?:friend|sibling|brother|sister|bestie|best friend|bro|sis)\b`,
	`\bnot (?:really )?interested (?:in you )?romantically\b`,
	`\bnot (?:really )?romantically interested\b`,
	`\bnot (?:looking|interested) (?:for|in) (?:anything|something) romantic\b`,
	`\bno romantic (?:feelings|interest|vibes|spark)\b`,
	`\bonly (?:see|think of) you as\b`,
	`\bdon'?t (?:see you|feel) (?:that way|like that)\b`,
	`\bfriendship (?:only|is all)\b`,
	`\bplatonic(?:ally)?\b`,
)

var stallingPatterns = compileAll(
	`\blet'?s (?:talk|chat|vibe|text|get to know each other)(?: a (?:bit|little))?(?: more)? first\b`,
	`\bget to know (?:you|each other|me)(?: a (?:bit|little))?(?: more| better)? first\b`,
	`\bslow (?:it |things )?down\b`,
	`\bnot so fast\b`,
	`\bmoving (?:(?:kinda|kind of|a bit|a little|too|so|really) )*fast\b`,
	`\btoo (?:soon|fast|early)\b`,
	`\bwe (?:literally |only |just )*(?:just )?(?:met|started talking)\b`,
	`\bjust started talking\b`,
	`\bmaybe (?:later|another time|some ?day|next time|one day)\b`,
	`\bsome other time\b`,
	`\brain ?check\b`,
	`\bnot (?:yet|right now|today|tonight)\b`,
	`\bdon'?t (?:even )?know (?:you|each other|u)(?: yet| well| that well)?\b`,
	`\b(?:we'?ll|let'?s|i'?ll) see(?:\s*(?:\.\.\.|…|[.,!?]|$)|\s+(?:how|where|what|about)\b)`,
	`\bidk about (?:that|this)\b`,
	`\bi'?m not sure (?:yet|about (?:that|this))\b`,
	`\blet me think(?: about it)?\b`,
	`\bask me (?:again )?later\b`,
	`\bearn it\b`,
	`\b(?:definitely|absolutely|obviously|hell) (?:no(?:t)?|don'?t|do not)\b`,
	`^(?:no+|nah+|nope)\b`,
	`\bno thanks?\b`,
	`\bi'?ll pass\b`,
	// declines that reuse agreement vocabulary
	`\bbut (?:i|i'?m|im) (?:can'?t|cannot|have (?:a|plans|to)|am busy|busy|already)\b`,
	`\b(?:can'?t|cannot)\b.{0,20}\bsorry\b`,
	`\bsorry\b.{0,20}\b(?:can'?t|cannot)\b`,
	`\b(?:do not|don'?t|dont) (?:really )?want to\b`,
	`\bi (?:have|got) a (?:boyfriend|girlfriend|partner|bf|gf)\b`,
	`\b(?:i'?m|im) (?:taken|seeing someone|in a relationship)\b`,
)

// eagerNotPattern removes "why not" so that "why not tonight" does not read as "not tonight".
var eagerNotPattern = regexp.MustCompile(`\bwhy not\b`)

// activityPattern is outing vocabulary only; everyday nouns would turn small talk questions into invitations.
var activityPattern = regexp.MustCompile(`\b(?:dinner|lunch|brunch|coffee|drinks?|movies?|date|go out|hang ?out|meet ?up|see you|grab a bite)\b`)

var invitationPattern = regexp.MustCompile(`\b(?:wanna|want to|wan na|would you (?:like|want|be down) to|would you be down|you down|down to|do you want|d'?you wanna|let'?s|should we|shall we|we should|how about|what about|are you free|you free|r u free|free (?:tonight|tomorrow|this weekend|later|on)|can i take you|could we|up for|care to|interested in)\b`)

var directInvitationPatterns = compileAll(
	`\bask(?:ing)? you out\b`,
	`\btake you (?:out|on a date|to dinner|to lunch)\b`,
	`\bsee you (?:tonight|tomorrow|this weekend|on (?:monday|tuesday|wednesday|thursday|friday|saturday|sunday))\b`,
	`\bgo (?:out )?on a date\b`,
	`\bbe my date\b`,
	`\b(?:date|dinner|coffee|drinks) with me\b`,
	`\bgo out with me\b`,
)

var agreementPatterns = compileAll(
	// direct agreement tied to date vocabulary
	`\b(?:yes+|yeah|yea|yep|yup|sure|ok(?:ay)?|absolutely|definitely|of course|for sure|totally|i'?d love)\b.{0,40}\b(?:date|dinner|lunch|brunch|coffee|drinks?|movies?|go out|hang ?out|meet|see you|come|join)\b`,
	`\b(?:i'?d|i would) (?:love|like) (?:to|that)\b`,
	`\b(?:would|i'?d) love (?:that|to)\b`,
	`\b(?:i'?m|im|i am) (?:so |totally |def |definitely |always |lowkey |highkey )?down\b`,
	`\bcount me in\b`,
	`\b(?:i'?m|im) in\s*(?:[!.]|$)`,
	`\b(?:it'?s|its) a (?:date|plan)\b`,
	`\b(?:sounds|that sounds) (?:good|great|fun|perfect|amazing|lovely|like a plan|like a date)\b`,
	`\blet'?s (?:do (?:it|this|that)|go)\b`,
	`\bcan'?t wait\b`,
	`\bhoping you'?d ask\b`,
	// enthusiastic affirmations
	`\b(?:omg )?(?:yes+|yas+|yess+)!+`,
	`\bhell yeah\b`,
	`\bobviously yes\b`,
	`\babsolutely\b`,
	`\bdefinitely\b`,
	// logistics and planning
	`\bwhat time\b`,
	`\bwhat day\b`,
	`\bwhen (?:should|do|are|can|works|is good)\b`,
	`\bwhere (?:should|do|are|can) we\b`,
	`\bwhere at\b`,
	`\bpick (?:me|you) up\b`,
	`\bsee you (?:there|then|at)\b`,
	`\bsend (?:me )?the (?:address|location|deets|details)\b`,
	// casual slang
	`\bsay less\b`,
	`\bsay no more\b`,
	`\bsure thing\b`,
	`\bwe outside\b`,
	`\b(?:lowkey|highkey) (?:yes|down)\b`,
	`\bbet\b`,
)

var bareAffirmativePattern = regexp.MustCompile(`^(?:yes+|yeah+|yea|yep|yup|ya|yah|sure|ok(?:ay)?|k|bet|absolutely|definitely|of course|for sure|fs|totally|yas+|mhm|uh huh|why not|obviously)(?:\s*(?:[!.?,~]+|😊|😍|🥰|😘|❤️|❤|💕|💖|😁|😄|🙌|🔥|✨|😉|😏|🥺|😂))*\s*$`)

var apostropheFolder = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"ʼ", "'",
	"´", "'",
	"`", "'",
)

func normalize(s string) string {
	return strings.TrimSpace(apostropheFolder.Replace(strings.ToLower(s)))
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(expr)
	}
	return out
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
