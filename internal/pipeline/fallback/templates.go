package fallback

import "idea-path/internal/models"

// templates is the fixed (tier, location) matrix. Keep every entry valid
// against the output schema; the e2e tests run each one through the
// formatter gate.
var templates = map[templateKey]models.FinalResponse{
	{tier: "micro", location: "rural"}: {
		Results: models.Results{
			BusinessIdea: "A home-based food or skill service for your immediate community, started with what you already own.",
			FeasibilityScores: []models.FeasibilityScore{
				{Category: "market", Value: 55, Explanation: "Small but loyal local demand for trusted everyday services."},
				{Category: "execution", Value: 70, Explanation: "No premises or equipment purchases needed to begin."},
				{Category: "capital", Value: 85, Explanation: "Designed around near-zero startup cost."},
				{Category: "risk", Value: 45, Explanation: "Low financial exposure; main risk is slow word-of-mouth growth."},
			},
			Roadmap: []models.RoadmapPhase{
				{Phase: "Phase 1", Title: "Ask your neighbors", Actions: []string{"Talk to 10 nearby households about what they need and would pay for", "Pick the one service you can deliver best"}, Duration: "weeks 1-2"},
				{Phase: "Phase 2", Title: "Serve your first customers", Actions: []string{"Deliver to 3-5 paying customers", "Ask each one for honest feedback and a referral"}, Duration: "weeks 3-6"},
				{Phase: "Phase 3", Title: "Make it regular", Actions: []string{"Set fixed days or a simple subscription", "Keep a notebook of costs and income"}, Duration: "weeks 7-12"},
				{Phase: "Phase 4", Title: "Reinvest carefully", Actions: []string{"Put early profit into better tools or supplies", "Add one neighboring village or area"}, Duration: "months 4-6"},
			},
			PitchSummary: "Start with the skill people around you already trust you for, charge fairly, and grow through referrals instead of spending on marketing.",
		},
		Ideas: []models.IdeaAlternative{
			{Name: "Home food service", Description: "Cooked meals or snacks for working families nearby.", WhyItFits: "Uses home equipment and daily demand."},
			{Name: "Repair and mending", Description: "Clothing, tools, or household repairs done from home.", WhyItFits: "Low competition and recurring need in rural areas."},
			{Name: "Tutoring local children", Description: "After-school help in reading and arithmetic.", WhyItFits: "No startup cost and builds community trust."},
		},
		DecisionSupport: models.DecisionSupport{
			Pros:        []string{"Near-zero startup cost", "Builds on existing trust in your community", "Income starts within weeks"},
			Cons:        []string{"Income ceiling is limited by local purchasing power", "Growth depends on word of mouth"},
			Risks:       []string{"Demand may be seasonal", "A single service may not be enough income on its own"},
			Mitigations: []string{"Offer two or three related services", "Keep costs near zero until demand is proven"},
			RevenueSimulation: models.RevenueSimulation{
				Year1RevenueMin:   2500,
				Year1RevenueMax:   5000,
				Year1ProfitMin:    250,
				Year1ProfitMax:    1500,
				BudgetSuitability: "moderate",
				EaseOfExecution:   "moderate",
				Notes:             "Pre-authored estimate for a micro budget in a rural market.",
				Disclaimer:        fallbackDisclaimer,
			},
			Explainability: "With a very small budget and a rural market, the dependable path is a trust-based service with no fixed costs, grown through referrals.",
		},
		EthicalSafeguards: []string{"Price fairly for local incomes", "Never rely on unpaid help", "Be honest about what you can deliver"},
		LocalAdaptation:   "Shape the offering around local routines and seasons, and accept payment methods your neighbors actually use.",
	},

	{tier: "micro", location: "urban"}: {
		Results: models.Results{
			BusinessIdea: "A mobile or home-based convenience service for busy city dwellers, marketed through free digital channels.",
			FeasibilityScores: []models.FeasibilityScore{
				{Category: "market", Value: 70, Explanation: "Dense urban demand for time-saving services."},
				{Category: "execution", Value: 60, Explanation: "Simple to start but competition demands consistency."},
				{Category: "capital", Value: 85, Explanation: "Designed around near-zero startup cost."},
				{Category: "risk", Value: 50, Explanation: "Low financial exposure; crowded market is the main risk."},
			},
			Roadmap: []models.RoadmapPhase{
				{Phase: "Phase 1", Title: "Pick a narrow niche", Actions: []string{"Choose one specific service for one specific neighborhood", "Check what nearby competitors charge"}, Duration: "weeks 1-2"},
				{Phase: "Phase 2", Title: "Launch free channels", Actions: []string{"Set up a social profile and a simple price list", "Get your first 5 customers through local groups"}, Duration: "weeks 3-6"},
				{Phase: "Phase 3", Title: "Earn repeat business", Actions: []string{"Follow up with every customer", "Introduce a loyalty or referral discount"}, Duration: "weeks 7-12"},
				{Phase: "Phase 4", Title: "Standardize and grow", Actions: []string{"Fix your schedule and service standards", "Expand to one adjacent neighborhood"}, Duration: "months 4-6"},
			},
			PitchSummary: "Serve one urban niche extremely well using free digital reach, avoid all fixed costs, and let repeat customers fund your growth.",
		},
		Ideas: []models.IdeaAlternative{
			{Name: "Errand and delivery help", Description: "Small pickups, queues, and deliveries for busy professionals.", WhyItFits: "Urban density makes short trips profitable."},
			{Name: "Home-cooked meal drops", Description: "Weekly meal prep delivered to offices or flats.", WhyItFits: "Recurring demand and no storefront needed."},
			{Name: "Skill micro-classes", Description: "Evening or weekend classes in a skill you already have.", WhyItFits: "City audiences pay for convenient learning."},
		},
		DecisionSupport: models.DecisionSupport{
			Pros:        []string{"Large addressable audience", "Free digital marketing channels work well", "No premises required"},
			Cons:        []string{"High competition in most niches", "City costs erode thin margins"},
			Risks:       []string{"Platforms can change their reach overnight", "Price pressure from established players"},
			Mitigations: []string{"Differentiate on reliability rather than price", "Build a direct repeat-customer list you control"},
			RevenueSimulation: models.RevenueSimulation{
				Year1RevenueMin:   2500,
				Year1RevenueMax:   5000,
				Year1ProfitMin:    250,
				Year1ProfitMax:    1500,
				BudgetSuitability: "moderate",
				EaseOfExecution:   "moderate",
				Notes:             "Pre-authored estimate for a micro budget in an urban market.",
				Disclaimer:        fallbackDisclaimer,
			},
			Explainability: "A micro budget in a city rules out premises and paid marketing, so the plan leans on density, free channels, and repeat custom.",
		},
		EthicalSafeguards: []string{"Price fairly and transparently", "Never rely on unpaid help", "Be honest in all marketing claims"},
		LocalAdaptation:   "Tune the service to the rhythms of your specific neighborhood: commute times, office clusters, and local events.",
	},

	{tier: "small", location: "rural"}: {
		Results: models.Results{
			BusinessIdea: "A small rural trade or supply business bridging town wholesale prices and village demand.",
			FeasibilityScores: []models.FeasibilityScore{
				{Category: "market", Value: 60, Explanation: "Steady demand for essentials that are hard to reach locally."},
				{Category: "execution", Value: 60, Explanation: "Needs basic logistics but no specialist skills."},
				{Category: "capital", Value: 70, Explanation: "Budget covers initial stock and transport."},
				{Category: "risk", Value: 50, Explanation: "Inventory ties up cash; demand is predictable."},
			},
			Roadmap: []models.RoadmapPhase{
				{Phase: "Phase 1", Title: "Map local demand", Actions: []string{"List the goods people travel to town for", "Price a starter inventory within half your budget"}, Duration: "weeks 1-3"},
				{Phase: "Phase 2", Title: "Start trading", Actions: []string{"Stock the top 10 items only", "Sell from home or a weekly market stall"}, Duration: "weeks 4-8"},
				{Phase: "Phase 3", Title: "Tighten the loop", Actions: []string{"Reorder only what sells", "Take advance orders to reduce stock risk"}, Duration: "months 3-4"},
				{Phase: "Phase 4", Title: "Add a service layer", Actions: []string{"Offer delivery to nearby villages", "Consider one complementary service such as repairs"}, Duration: "months 5-8"},
			},
			PitchSummary: "Use a modest budget to shorten the distance between wholesale supply and village demand, keeping stock lean and customers close.",
		},
		Ideas: []models.IdeaAlternative{
			{Name: "Essentials supply", Description: "Household staples sourced wholesale and sold locally.", WhyItFits: "Predictable demand and simple operations."},
			{Name: "Agri-input store", Description: "Seeds, feed, and small tools for local farmers.", WhyItFits: "Serves the dominant local sector."},
			{Name: "Collection and delivery", Description: "Bring town services (parcels, documents, purchases) to the village.", WhyItFits: "Monetizes trips people already need."},
		},
		DecisionSupport: models.DecisionSupport{
			Pros:        []string{"Budget covers real starting inventory", "Demand is stable and visible", "Low competition locally"},
			Cons:        []string{"Cash is tied up in stock", "Margins on essentials are thin"},
			Risks:       []string{"Unsold inventory", "A larger trader entering the area"},
			Mitigations: []string{"Start with fast-moving items only", "Use advance orders to de-risk stock"},
			RevenueSimulation: models.RevenueSimulation{
				Year1RevenueMin:   10000,
				Year1RevenueMax:   20000,
				Year1ProfitMin:    1000,
				Year1ProfitMax:    6000,
				BudgetSuitability: "good",
				EaseOfExecution:   "moderate",
				Notes:             "Pre-authored estimate for a small budget in a rural market.",
				Disclaimer:        fallbackDisclaimer,
			},
			Explainability: "A small budget in a rural market goes furthest in trade: the capital becomes working stock rather than rent or equipment.",
		},
		EthicalSafeguards: []string{"Sell safe, genuine goods", "Price fairly for local incomes", "Pay any helpers lawfully"},
		LocalAdaptation:   "Stock according to the local agricultural calendar and festival seasons, and extend careful credit only to known customers.",
	},

	{tier: "small", location: "urban"}: {
		Results: models.Results{
			BusinessIdea: "A focused urban service business with basic equipment and a small paid-marketing budget.",
			FeasibilityScores: []models.FeasibilityScore{
				{Category: "market", Value: 70, Explanation: "City demand supports specialized services."},
				{Category: "execution", Value: 65, Explanation: "Budget covers proper tools and a professional setup."},
				{Category: "capital", Value: 65, Explanation: "Sufficient for equipment but not for premises."},
				{Category: "risk", Value: 50, Explanation: "Moderate; fixed costs stay low without a lease."},
			},
			Roadmap: []models.RoadmapPhase{
				{Phase: "Phase 1", Title: "Validate the niche", Actions: []string{"Interview 15 potential customers", "Run a small paid test campaign before buying equipment"}, Duration: "weeks 1-3"},
				{Phase: "Phase 2", Title: "Equip and launch", Actions: []string{"Buy only the equipment the validated service needs", "Launch with an introductory offer"}, Duration: "weeks 4-8"},
				{Phase: "Phase 3", Title: "Build repeatability", Actions: []string{"Systematize booking and payments", "Collect reviews and referrals"}, Duration: "months 3-5"},
				{Phase: "Phase 4", Title: "Scale deliberately", Actions: []string{"Add part-time help at sustained capacity", "Evaluate a shared workspace only when demand justifies it"}, Duration: "months 6-9"},
			},
			PitchSummary: "Put a small budget into validated equipment and targeted marketing for one urban niche, keeping premises out of the cost base.",
		},
		Ideas: []models.IdeaAlternative{
			{Name: "Mobile specialty service", Description: "A skilled service delivered at the customer's home or office.", WhyItFits: "Equipment fits the budget; no rent needed."},
			{Name: "Online-first product", Description: "A niche product sold through social channels with small-batch inventory.", WhyItFits: "Paid marketing budget can find the audience."},
			{Name: "B2B support service", Description: "A recurring service (cleaning, upkeep, admin) for small businesses.", WhyItFits: "Contracts give predictable monthly income."},
		},
		DecisionSupport: models.DecisionSupport{
			Pros:        []string{"Budget funds proper equipment and marketing", "Urban demand supports premium niches", "No lease keeps risk contained"},
			Cons:        []string{"Competition is strong in most niches", "Paid marketing needs discipline to pay back"},
			Risks:       []string{"Equipment bought before validation", "Customer acquisition costs exceeding margins"},
			Mitigations: []string{"Validate before every major purchase", "Track acquisition cost against customer value monthly"},
			RevenueSimulation: models.RevenueSimulation{
				Year1RevenueMin:   10000,
				Year1RevenueMax:   20000,
				Year1ProfitMin:    1000,
				Year1ProfitMax:    6000,
				BudgetSuitability: "good",
				EaseOfExecution:   "moderate",
				Notes:             "Pre-authored estimate for a small budget in an urban market.",
				Disclaimer:        fallbackDisclaimer,
			},
			Explainability: "With a small budget in a city, the leverage is in validated equipment and targeted reach, not premises.",
		},
		EthicalSafeguards: []string{"Market honestly without exaggerated claims", "Pay fair wages for any help", "Respect customer data and privacy"},
		LocalAdaptation:   "Target districts whose income levels and routines match the service, and price against real local competitors.",
	},
}
