package generator

import (
	"fmt"
	"strings"
)

// Material for locally assembled question slots. Ordering steps come from
// this catalogue, never from conversation lines: dialogue turns have no
// inherent sequence, so ordering questions are built from real-world action
// sequences instead.
//
// Each master is a task decomposition of eight steps in their true order.
// Builders take ordered subsets, so one master yields many distinct
// questions; the run ledger rejects any subset that recurs verbatim.

type orderingStep struct {
	en string
	ml string
}

var orderingMasters = map[string][][]orderingStep{
	"greetings": {
		{
			{"Say hello", "Namaskaram parayuka"},
			{"Introduce yourself", "Ninte periyum parayuka"},
			{"Ask their name", "Avarde peru chodikuka"},
			{"Say nice to meet you", "Kandathil santhosham ennu parayuka"},
			{"Ask how they are", "Sukhamano ennu chodikuka"},
			{"Listen to the reply", "Marupadi kelkkuka"},
			{"Talk about the day", "Annathe divasathe kurichu samsarikkuka"},
			{"Say goodbye", "Yaathra parayuka"},
		},
		{
			{"Meet someone", "Oraale kaanuka"},
			{"Smile warmly", "Nannayi chirikkuka"},
			{"Shake hands", "Kai kodukkuka"},
			{"Exchange names", "Perukal parasparam parayuka"},
			{"Start conversation", "Samsaaram thudanguka"},
			{"Share a little about yourself", "Ninne kurichu kurachu parayuka"},
			{"Ask a friendly question", "Oru sneha chodyam chodikuka"},
			{"Part ways", "Piriyuka"},
		},
		{
			{"Wave hello", "Kai veeshi namaskaram parayuka"},
			{"Smile and greet", "Chirichu abhivaadanam cheyyuka"},
			{"Ask how they are doing", "Avarude sukham chodikuka"},
			{"Listen to the response", "Avarude marupadi kelkkuka"},
			{"Ask about their family", "Avarude veettukaare kurichu chodikuka"},
			{"Share your news", "Ninte vishesham parayuka"},
			{"Thank them for the chat", "Samsaarathinu nanni parayuka"},
			{"Wave goodbye", "Kai veeshi yaathra parayuka"},
		},
	},
	"food": {
		{
			{"Feel hungry", "Vishakkunnu ennu thonnuka"},
			{"Enter restaurant", "Restaurantil kayaruka"},
			{"Look at menu", "Menu nokkuka"},
			{"Choose dish", "Dish thiranjedukuka"},
			{"Place order", "Order cheyyuka"},
			{"Receive food", "Bakshanam kittuka"},
			{"Enjoy meal", "Bakshanam aaswadikkuka"},
			{"Pay the bill", "Bill kodukkuka"},
		},
		{
			{"Walk into the cafe", "Cafeyil kayaruka"},
			{"Find table", "Mesha kandethuka"},
			{"Call waiter", "Waiterine vilikkuka"},
			{"Ask for recommendations", "Nallathu ethu ennu chodikuka"},
			{"Order meal", "Bakshanam order cheyyuka"},
			{"Wait for the food", "Bakshanathinu kaathirikkuka"},
			{"Taste the dish", "Dish ruchi nokkuka"},
			{"Share your opinion", "Abhiprayam parayuka"},
		},
		{
			{"Decide what to eat", "Enthu kazhikkanam ennu theerumanikkuka"},
			{"Go to restaurant", "Restaurantilekku pokuka"},
			{"Read the specials", "Specials vaayikkuka"},
			{"Pick something new", "Puthiya onnu thiranjedukuka"},
			{"Ask about the spice level", "Erivinte kaaryam chodikuka"},
			{"Try the first bite", "Aadyathe kashnam ruchikkuka"},
			{"Order something to drink", "Kudikkaan enthenkilum order cheyyuka"},
			{"Leave a tip", "Tip kodukkuka"},
		},
	},
	"travel": {
		{
			{"Check bus schedule", "Bus samayam nokkuka"},
			{"Wait at stop", "Stop il kaathirikkuka"},
			{"Board bus", "Bus il kayaruka"},
			{"Pay fare", "Paisa kodukuka"},
			{"Find a seat", "Seat kandethuka"},
			{"Watch for your stop", "Ninte stop nokkuka"},
			{"Ring the bell", "Bell adikkuka"},
			{"Get off the bus", "Bus il ninnu iranguka"},
		},
		{
			{"Pack bags", "Bag pack cheyyuka"},
			{"Leave home", "Veettil ninnu purappeduka"},
			{"Reach station", "Stationil ethuka"},
			{"Buy the ticket", "Ticket edukkuka"},
			{"Board train", "Trainil kayaruka"},
			{"Find your seat", "Ninte seat kandethuka"},
			{"Watch the scenery", "Kaazhchakal kaanuka"},
			{"Arrive at your stop", "Ninte stoppil ethuka"},
		},
		{
			{"Ask for directions", "Vazhi chodikuka"},
			{"Note the landmarks", "Adayaalangal ormikkuka"},
			{"Follow the route", "Vazhi pinthudaruka"},
			{"Cross the junction", "Junction kadakkuka"},
			{"Check the street signs", "Street board nokkuka"},
			{"Ask again if lost", "Vazhi thettiyal veendum chodikuka"},
			{"Find destination", "Sthalam kandethuka"},
			{"Arrive safely", "Surakshitamayi ethuka"},
		},
	},
	"shopping": {
		{
			{"Enter shop", "Kada kayaruka"},
			{"Browse items", "Saamaan nokkuka"},
			{"Compare prices", "Vila tharathamyam cheyyuka"},
			{"Select product", "Product thiranjedukuka"},
			{"Ask about discounts", "Discount chodikuka"},
			{"Pay at counter", "Counter il paisa kodukuka"},
			{"Collect the receipt", "Receipt vaanguka"},
			{"Carry the bags home", "Sanchi veettilekku kondupokuka"},
		},
		{
			{"Make shopping list", "Shopping list undaakkuka"},
			{"Go to market", "Marketilekku pokuka"},
			{"Find the stalls", "Kadakal kandethuka"},
			{"Check the quality", "Quality nokkuka"},
			{"Bargain politely", "Vila kurachu chodikuka"},
			{"Buy groceries", "Saadhanangal vaanguka"},
			{"Count the change", "Baaki paisa ennuka"},
			{"Return home", "Veettilekku madanguka"},
		},
		{
			{"See advertisement", "Parasyam kaanuka"},
			{"Visit store", "Kada sandarshikkuka"},
			{"Ask for the new arrival", "Puthiya saadhanam chodikuka"},
			{"Try product", "Product upayogichu nokkuka"},
			{"Think it over", "Onnu aalochikkuka"},
			{"Make purchase", "Vaanguka"},
			{"Keep the warranty card", "Warranty card sookshikkuka"},
			{"Tell a friend about it", "Koottukaarodu parayuka"},
		},
	},
}

// defaultOrderingMasters carry a %s slot for the unit topic, so units with
// no dedicated family still get material of their own instead of colliding
// on one shared sequence.
var defaultOrderingMasters = [][]orderingStep{
	{
		{"Think of a question about %s", "%s ine kurichu oru chodyam aalochikkuka"},
		{"Find someone to ask", "Chodikkaan oraale kandethuka"},
		{"Start the conversation", "Samsaaram thudanguka"},
		{"Explain what you need", "Enthu venam ennu parayuka"},
		{"Exchange information", "Vivarangal kaimaaruka"},
		{"Make plans", "Plan undaakkuka"},
		{"Confirm the details", "Kaaryangal urappikkuka"},
		{"Say goodbye", "Yaathra parayuka"},
	},
	{
		{"Greet the person", "Abhivaadanam cheyyuka"},
		{"Bring up %s", "%s inte kaaryam parayuka"},
		{"Ask your question", "Ninte chodyam chodikuka"},
		{"Listen carefully", "Shradhichu kelkkuka"},
		{"Get the answer", "Utharam kittuka"},
		{"Ask a follow-up about %s", "%s ine patti veendum chodikuka"},
		{"Thank them", "Nanni parayuka"},
		{"Part ways", "Piriyuka"},
	},
	{
		{"Meet someone", "Oraale kaanuka"},
		{"Talk briefly about %s", "%s ine kurichu kurachu samsarikkuka"},
		{"Share your experience", "Ninte anubhavam parayuka"},
		{"Compare notes on %s", "%s inte kaaryangal tharathamyam cheyyuka"},
		{"Agree on the main point", "Pradhana kaaryam sammathikkuka"},
		{"Share contact", "Number kaimaaruka"},
		{"Promise to follow up", "Veendum samsarikkaam ennu parayuka"},
		{"Wave goodbye", "Kai veeshi yaathra parayuka"},
	},
}

func mastersForTopic(topic string) [][]orderingStep {
	t := strings.ToLower(topic)
	switch {
	case strings.Contains(t, "greet"):
		return orderingMasters["greetings"]
	case strings.Contains(t, "food"), strings.Contains(t, "restaurant"), strings.Contains(t, "cafe"), strings.Contains(t, "order"):
		return orderingMasters["food"]
	case strings.Contains(t, "travel"), strings.Contains(t, "bus"), strings.Contains(t, "train"), strings.Contains(t, "station"), strings.Contains(t, "direction"), strings.Contains(t, "ticket"):
		return orderingMasters["travel"]
	case strings.Contains(t, "shop"), strings.Contains(t, "market"), strings.Contains(t, "grocery"), strings.Contains(t, "bargain"):
		return orderingMasters["shopping"]
	default:
		return defaultOrderingMasters
	}
}

func renderStep(s orderingStep, topic string) (en, ml string) {
	en, ml = s.en, s.ml
	if strings.Contains(en, "%s") {
		en = fmt.Sprintf(en, topic)
	}
	if strings.Contains(ml, "%s") {
		ml = fmt.Sprintf(ml, topic)
	}
	return en, ml
}

// stockDistractors are Manglish filler options for single-select questions
// when the conversation is too short to supply three wrong meanings.
var stockDistractors = []string{
	"Shari",
	"Nanni",
	"Ente Peru",
	"Njan varunnudu",
	"Sukhamano?",
	"Enthanu?",
	"Shariyaanu",
	"Thettanu",
	"Njan arinjilla",
	"Vishakkunnu",
	"Nalla divasam",
}

// genericWrongAnswers pad multi-select questions. None of these phrasings
// are asked for by the conversation prompts, so they stay safe distractors.
var genericWrongAnswers = []string{
	"I don't understand",
	"See you later",
	"What's your name?",
	"Where is the bus stop?",
	"How much does it cost?",
	"Can you help me?",
	"I'm hungry",
	"What time is it?",
	"Nice to meet you",
	"Have a good day",
}

var wrongAnswerTranslations = map[string]string{
	"I don't understand":     "Enikku manassilayilla",
	"See you later":          "Pinne kaanaam",
	"What's your name?":      "Ninte peru enthanu?",
	"Where is the bus stop?": "Bus stop evideyanu?",
	"How much does it cost?": "Ithinu enthu vila?",
	"Can you help me?":       "Enne sahayikkamo?",
	"I'm hungry":             "Enikku vishakkunnu",
	"What time is it?":       "Ippol samayam ethrayaayi?",
	"Nice to meet you":       "Kandathil santhosham",
	"Have a good day":        "Nalla divasam aakatte",
}

// greetingWords mark an English line as a greeting for true/false claims.
var greetingWords = []string{"hello", "hi", "good morning", "good evening"}

func isGreetingLine(en string) bool {
	lower := strings.ToLower(en)
	for _, w := range greetingWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
