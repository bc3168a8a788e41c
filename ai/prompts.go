package ai

import "fmt"

// SystemPrompt frames the reasoning service as a URL threat analyst.
const SystemPrompt = `You are a cybersecurity expert. Analyze URLs for threats. Respond ONLY with valid JSON, no markdown or explanations.`

// VerificationChallenge is the round-2 message asking the model to re-check
// its first answer.
const VerificationChallenge = `Are you sure? Think carefully and verify your analysis for accuracy. Ensure the output is ONLY a valid JSON object matching the requested schema.`

const analysisPromptTemplate = `Analyze this URL for security threats. Respond ONLY with JSON.

URL: %s
IP: %s
Initial Score: %d

Evaluate:
1. Phishing signs (domain spoofing, credential harvesting)
2. Technical red flags (special chars, obfuscation)
3. IP reputation (C2, malware hosting)
4. Overall malware/exploit risk

Return ONLY this JSON:
{
  "riskScore": <0-100>,
  "label": "Safe"|"Suspicious"|"Malicious",
  "attackType": "<threat type>",
  "evidence": "<analysis>",
  "ipReputation": "<IP analysis>",
  "computationalMetrics": {
    "phishingScore": <0-100>,
    "technicalAnomalyScore": <0-100>,
    "ipReputationScore": <0-100>,
    "malwareScore": <0-100>,
    "analysisConfidence": "High"|"Medium"|"Low"
  }
}`

// AnalysisPrompt embeds the scan target and the heuristic prior score.
func AnalysisPrompt(url, resolvedIP string, priorScore int) string {
	return fmt.Sprintf(analysisPromptTemplate, url, resolvedIP, priorScore)
}
