package service

import (
	"strconv"
	"strings"
)

// SuggestService produces draft disclosure text per ESRS topic. The text
// is canned and deterministic; there is no external model call, which
// keeps drafting usable offline and in tests.
type SuggestService struct{}

// Suggestion templates use {org} and {year} placeholders.
var topicSuggestions = map[string]string{
	"E1": "In {year}, {org} assessed its climate-related impacts, risks and opportunities across its own operations and value chain. The organization tracks Scope 1 and Scope 2 greenhouse gas emissions and is establishing a baseline for material Scope 3 categories. A transition plan aligned with limiting global warming to 1.5 degrees is under development, including interim reduction targets and planned decarbonisation levers.",
	"E2": "{org} monitors emissions of pollutants to air, water and soil arising from its operations. In {year}, the organization reviewed its use of substances of concern and is phasing out those with available alternatives. Incident thresholds and reporting lines are defined in the environmental management procedure.",
	"E3": "Water withdrawal, consumption and discharge were reviewed for all sites operated by {org} during {year}. Sites located in areas of high water stress are identified and carry site-specific reduction targets. Impacts on marine resources along the value chain are screened as part of supplier assessments.",
	"E4": "{org} evaluated its dependencies and impacts on biodiversity and ecosystems in {year}, with attention to sites adjacent to protected areas. Land-use change, resource extraction and pollution pathways are the primary pressure categories identified. Mitigation follows the avoid-reduce-restore hierarchy.",
	"E5": "Material inflows and outflows of {org} were mapped in {year} as the basis for its circular economy programme. The organization tracks the share of recycled and renewable content in incoming materials and the share of waste diverted from disposal. Product design guidelines prioritise durability, reparability and recyclability.",
	"S1": "{org} employed its own workforce under collective agreements and local employment law throughout {year}. Working conditions, fair wages, health and safety performance, and training hours are tracked per site and reported to management quarterly. Channels exist for workers to raise concerns without fear of retaliation.",
	"S2": "Value chain workers connected to {org} were assessed in {year} through the supplier due diligence programme. High-risk procurement categories receive enhanced audits covering forced labour, child labour, working time and wage practices. Corrective action plans are agreed with suppliers where gaps are found.",
	"S3": "In {year}, {org} reviewed its actual and potential impacts on affected communities near its operating locations. Engagement is conducted through local consultation before material operational changes. A community grievance mechanism is available and its cases are reported to the sustainability committee.",
	"S4": "{org} assessed impacts on consumers and end-users of its products and services during {year}. Product safety, accessible information and responsible marketing practices are covered by internal policy. Personal data of consumers is processed in line with applicable data protection regulation.",
	"G1": "The governance, risk and compliance framework of {org} was reviewed in {year}. The organization maintains an anti-corruption and anti-bribery programme with mandatory training for exposed functions, a protected whistleblowing channel, and payment practice monitoring covering supplier payment terms.",
}

const genericSuggestion = "During {year}, {org} assessed its impacts, risks and opportunities for this topic. Detailed disclosures will be added as data collection matures."

// SectionText returns draft body text for one topic section. Unknown
// topic codes get a generic paragraph rather than an error so the editor
// always receives something usable.
func (s *SuggestService) SectionText(topicCode, orgName string, year int) string {
	tmpl, ok := topicSuggestions[topicCode]
	if !ok {
		tmpl = genericSuggestion
	}

	r := strings.NewReplacer(
		"{org}", orgName,
		"{year}", strconv.Itoa(year),
	)
	return r.Replace(tmpl)
}
