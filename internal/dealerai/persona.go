package dealerai

import rand "math/rand/v2"

// Persona is the system prompt that keeps Vic in character.
const Persona = `You are Victoria (Vic), a sharp-tongued, witty, and slightly flirty high-stakes dealer at khel.fun.
You respect big bold plays but love to tease hesitation or bad luck.
Your tone is dry, confident, and conversational. Avoid generic robot casino cliches.
Be sarcastic if they lose, slightly impressed if they win big.
You are chatting with the player while dealing Blackjack.
Keep your responses relatively short, punchy, and engaging.`

const avatarPrompt = `A hyper-realistic close-up portrait of a beautiful Eurasian female casino dealer named Victoria. She has sophisticated makeup, glossy lips, and is wearing a formal black tuxedo vest with a bowtie. She is looking directly at the camera with a confident, slight smile. The background is pure solid black. 8k resolution, cinematic lighting, photorealistic.`

// ChatApology is returned when the chat backend fails; the underlying
// session is reset at the same time.
const ChatApology = "Not now, honey. The pit boss is watching."

// ChatBusy is returned when the backend answers with nothing usable.
const ChatBusy = "I'm busy shuffling, darling. Ask me in a second."

// CommentKey is the event taxonomy shared by prompt construction and
// the canned fallback table.
type CommentKey string

const (
	KeyInitial   CommentKey = "initial"
	KeyHit       CommentKey = "hit"
	KeyStand     CommentKey = "stand"
	KeyDouble    CommentKey = "double"
	KeySurrender CommentKey = "surrender"
	KeyInsurance CommentKey = "insurance"
	KeySplit     CommentKey = "split"
	KeyPlayerWin CommentKey = "player_win"
	KeyDealerWin CommentKey = "dealer_win"
	KeyBlackjack CommentKey = "blackjack"
	KeyBust      CommentKey = "bust"
	KeyPush      CommentKey = "push"
	KeyMixed     CommentKey = "mixed"
	KeyDefault   CommentKey = "default"
)

var fallbackComments = map[CommentKey][]string{
	KeyInitial: {
		"Chips are down. Don't choke.",
		"Let's see if luck has a pulse today.",
		"Cards are flying. Try to keep up.",
		"Big money, dubious choices. My favorite.",
		"Here we go. Try not to blink.",
	},
	KeyHit: {
		"Living dangerously? I like it.",
		"Digging for gold, or digging a grave?",
		"Bold strategy. Let's see if it pays.",
		"One more? You have a death wish.",
		"Searching for a miracle?",
	},
	KeyStand: {
		"Parking the bus? Smart.",
		"Playing it safe. How boring.",
		"Stopping there? Alright, my turn.",
		"Cowardice or calculation? We'll see.",
		"Done already? Shame.",
	},
	KeyDouble: {
		"Double down? Someone's feeling cocky.",
		"Twice the risk, twice the... pain?",
		"Aggressive. I hope your wallet can handle it.",
		"Going big! I love a risk-taker.",
	},
	KeySurrender: {
		"Running away? Probably wise.",
		"Surrender accepted. Coward.",
		"Cutting your losses. Smart, but dull.",
		"Fleeing the scene? Fair enough.",
	},
	KeyInsurance: {
		"Buying protection? How prudent.",
		"Scared of the Ace? You should be.",
		"Insurance. The tax on fear.",
	},
	KeySplit: {
		"Dividing forces? Divide and conquer.",
		"Two hands, double the trouble.",
		"Splitting? Getting fancy, aren't we.",
		"Let's see if two heads are better than one.",
	},
	KeyPlayerWin: {
		"Fine, take the money. Don't gloat.",
		"Beginner's luck is a powerful drug.",
		"You got me. Enjoy it while it lasts.",
		"Nice hand. I've seen better, but it pays.",
		"Calculated win. I respect that.",
		"Don't spend it all on cheap drinks.",
	},
	KeyDealerWin: {
		"The house always wins. Shocking, I know.",
		"Don't cry, it stains the felt.",
		"My chips now. Thanks for the donation.",
		"Better luck in the next life.",
		"Not your hand, darling. Maybe next time.",
		"Ouch. That looked expensive.",
	},
	KeyBlackjack: {
		"Blackjack. Show off.",
		"21. You're ruining my profit margins.",
		"Look at you, counting cards?",
		"Winner winner. Yeah, yeah, take it.",
		"Perfection. I hate it.",
		"Blackjack! You're on fire.",
	},
	KeyBust: {
		"And... boom. Too much.",
		"Greed is a killer, darling.",
		"Bust. That was painful to watch.",
		"Over the limit. Story of your life?",
		"You flew too close to the sun.",
		"Calculated risk... bad calculation.",
	},
	KeyPush: {
		"Push. Like kissing your sister.",
		"A tie. How anticlimactic.",
		"Nobody wins. Exciting stuff.",
		"Money back. Try actually winning next time.",
		"Stalemate. Boring.",
	},
	KeyMixed: {
		"Win some, lose some. The circle of life.",
		"A mixed bag. Could be worse.",
		"Breaking even is better than broke.",
		"Half victory, half defeat.",
	},
	KeyDefault: {
		"Let's see how this plays out.",
		"Interesting...",
		"The cards are fickle mistresses.",
	},
}

// Fallback picks a canned line for the given event key.
func Fallback(rng *rand.Rand, key CommentKey) string {
	comments, ok := fallbackComments[key]
	if !ok {
		comments = fallbackComments[KeyDefault]
	}
	return comments[rng.IntN(len(comments))]
}
