package e2e

// Export fixtures covering the two shapes the form platform emits: a bare
// record array and an OData-style envelope.

const arrayExport = `[
  {
    "ID": 12,
    "First & Last Name": "Priya Sharma",
    "Email": "priya@example.com",
    "Position Type": "Platform Engineer",
    "Completion time": 45292,
    "Preferred Start Date": 45352,
    "Tell us about a system you designed": "A multi-tenant job scheduler.",
    "Why this company_x003f_": "The engineering culture."
  }
]`

const envelopeExport = `{
  "@odata.context": "https://graph.microsoft.com/v1.0/$metadata#items",
  "value": [
    {
      "ID": 13,
      "Name": "Jordan Lee",
      "Email": "jordan@example.com",
      "Position Type": "SRE",
      "Completion time": 45300,
      "Describe an incident you led": "A cascading cache failure recovery."
    }
  ]
}`
