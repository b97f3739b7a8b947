package main

import "github.com/civicsignal/petition-meter/internal/types"

// samplePetitions seed the dashboard's "try an example" flow. The
// strong sample crosses every feedback threshold, the weak one none.
var samplePetitions = []struct {
	Name     string                 `json:"name"`
	Document types.PetitionDocument `json:"document"`
}{
	{
		Name: "Strong: Save the Riverside Community Library",
		Document: types.PetitionDocument{
			Title: "Urgent: Stop the Closure of Riverside Community Library Before the Deadline",
			Description: `<p>The Riverside Community Library has served our neighborhood for <strong>47 years</strong>, ` +
				`welcoming over <em>120000 visitors</em> every year. Now the city council plans to close it ` +
				`permanently on December 1st, citing a budget shortfall of only 2 percent.</p>` +
				`<p>This is an <strong>emergency</strong> for the 8000 children who rely on the library for ` +
				`after-school programs, free internet access, and a safe place to study. Closing it would ` +
				`force families to travel 12 miles to the nearest branch.</p>` +
				`<p>We demand that the council act now to protect this critical public resource. The city must ` +
				`implement the alternative funding plan presented by the Friends of the Library, which covers ` +
				`85 percent of operating costs through existing grants.</p>` +
				`<p>Sign this petition and join your voice with thousands of neighbors. Together we can stop ` +
				`this closure immediately and guarantee library access for the next generation. Every signature ` +
				`counts, and the deadline is approaching fast. Please support our campaign today and help us ` +
				`change the outcome before it is too late.</p>`,
			LetterBody: `Dear Council Members,

We the undersigned urge you to reject the proposed closure of the Riverside Community Library. ` +
				`The library serves 120000 visitors annually and its closure would harm thousands of families. ` +
				`We call on you to implement the alternative funding plan immediately and ensure continued ` +
				`access for all residents. This decision requires urgent action before the December deadline.`,
			TargetingDescription: "Riverside City Council, Mayor's Office, Department of Public Services, State Library Commission",
		},
	},
	{
		Name: "Weak: Untitled request",
		Document: types.PetitionDocument{
			Title:       "Please help",
			Description: "We would like things to be better in our area. Thanks for reading.",
		},
	},
}
