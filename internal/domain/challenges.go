package domain

// WeeklyTaskCount is how many challenges each weekly set contains.
const WeeklyTaskCount = 7

// ChallengeCatalog returns the fixed pool of sustainability challenges a
// weekly set is sampled from. Treat the result as read-only.
func ChallengeCatalog() []string {
	return challengeCatalog
}

var challengeCatalog = []string{
	"Turn off all lights when leaving a room for a full day",
	"Unplug chargers and electronics you are not using",
	"Lower your thermostat by 2 degrees for the day",
	"Raise your AC setpoint by 2 degrees for the day",
	"Run the dishwasher only when completely full",
	"Wash one load of laundry in cold water",
	"Air-dry a load of laundry instead of using the dryer",
	"Take a shower under 5 minutes",
	"Keep the fridge door closed - plan before you open it",
	"Cook a meal without using the oven",
	"Use natural light only until sunset",
	"Swap one incandescent bulb for an LED",
	"Enable power-saving mode on your computer",
	"Turn off your TV and screens for one evening",
	"Walk or bike instead of driving for one trip",
	"Take public transit instead of driving",
	"Carpool for one commute",
	"Combine all errands into a single car trip",
	"Keep your car tires inflated to the recommended pressure",
	"Skip the elevator and take the stairs all day",
	"Work from home one day to skip the commute",
	"Eat one fully plant-based meal",
	"Buy produce from a local farmers market",
	"Avoid single-use plastics for a day",
	"Bring reusable bags for all shopping",
	"Use a reusable water bottle all day",
	"Brew coffee at home instead of buying a cup",
	"Compost your food scraps for a day",
	"Recycle all paper, glass, and cans today",
	"Repair something instead of replacing it",
	"Donate clothes or goods instead of discarding them",
	"Set your water heater to 120 degrees Fahrenheit",
	"Fix or report a dripping faucet",
	"Collect cold shower water while it warms and water plants with it",
	"Run ceiling fans instead of the AC for a day",
	"Close blinds during peak afternoon heat",
	"Open windows for cooling instead of using the AC at night",
	"Seal one drafty window or door with weatherstripping",
	"Put your computer to sleep instead of leaving it idle",
	"Use a power strip to switch off standby devices overnight",
	"Defrost your freezer if ice has built up",
	"Vacuum your refrigerator coils",
	"Match the pot size to the burner when cooking",
	"Cook with lids on your pots",
	"Batch-cook two meals in one oven session",
	"Read or play a board game instead of screen time tonight",
	"Dry clothes on the balcony or a drying rack",
	"Set your thermostat on a schedule before bed",
	"Switch your devices to dark mode to save screen energy",
	"Plant a seed, herb, or tree",
	"Pick up litter on a 15-minute walk",
	"Share an energy-saving tip with a neighbor",
	"Calculate the wattage of your three biggest appliances",
	"Read one article about renewable energy",
	"Track every kilowatt-hour you use for one day",
}
